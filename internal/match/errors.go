package match

import "tutormatch/backend/internal/apperr"

var (
	ErrInvalidTarget        = apperr.New(apperr.KindValidation, "match_invalid_target")
	ErrAlreadyMatched       = apperr.New(apperr.KindConflict, "match_already_matched")
	ErrTargetAlreadyMatched = apperr.New(apperr.KindConflict, "match_target_already_matched")
	// ErrMatchConflict means a concurrent proposal reserved one of the users first.
	ErrMatchConflict = apperr.New(apperr.KindConflict, "match_conflict")
	ErrNotFound      = apperr.New(apperr.KindNotFound, "match_not_found")
	ErrForbidden     = apperr.New(apperr.KindForbidden, "match_forbidden")
	ErrInvalidState  = apperr.New(apperr.KindInvalidState, "match_invalid_state")
)
