package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"tutormatch/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindInvalidState, http.StatusBadRequest},
		{apperr.KindUnauthorized, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindRateLimited, http.StatusTooManyRequests},
		{apperr.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf_WrappedSentinel(t *testing.T) {
	sentinel := apperr.New(apperr.KindConflict, "already_matched")
	wrapped := fmt.Errorf("propose: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(wrapped))
	assert.Equal(t, "already_matched", apperr.CodeOf(wrapped))
}

func TestInternal(t *testing.T) {
	cause := errors.New("connection refused")

	err := apperr.Internal(cause)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))

	// Already classified errors pass through.
	assert.Same(t, apperr.ErrForbidden, apperr.Internal(apperr.ErrForbidden))
	assert.Nil(t, apperr.Internal(nil))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
}
