// Package match implements the pairing lifecycle between users:
// propose, accept, reject and close, with at most one open match per user.
package match

import (
	"context"
	"errors"
	"time"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/metrics"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage"

	"go.uber.org/zap"
)

type Service interface {
	Propose(ctx context.Context, initiatorID, targetID uint) (*models.Match, error)
	Accept(ctx context.Context, matchID, actorID uint) (*models.Match, error)
	Reject(ctx context.Context, matchID, actorID uint) (*models.Match, error)
	Close(ctx context.Context, matchID, actorID uint) (*models.Match, error)
	// ForceEnd ends an open match as an operator: pending becomes rejected, active becomes closed.
	ForceEnd(ctx context.Context, matchID uint) (*models.Match, error)
	Check(ctx context.Context, userA, userB uint) (bool, error)
	List(ctx context.Context, userID uint) ([]models.MatchView, error)
}

type service struct {
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store storage.Storage, logger *zap.Logger) Service {
	return &service{
		store:  store,
		logger: logger.Named("match"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Propose creates a pending match. The exclusivity checks and the insert share one
// transaction; the match_locks primary key catches proposals that raced past the checks.
func (s *service) Propose(ctx context.Context, initiatorID, targetID uint) (*models.Match, error) {
	if targetID == 0 || targetID == initiatorID {
		return nil, ErrInvalidTarget
	}

	var created *models.Match
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUserByID(ctx, targetID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidTarget
			}
			return err
		}

		busy, err := tx.HasOpenMatch(ctx, initiatorID)
		if err != nil {
			return err
		}
		if busy {
			return ErrAlreadyMatched
		}

		busy, err = tx.HasOpenMatch(ctx, targetID)
		if err != nil {
			return err
		}
		if busy {
			return ErrTargetAlreadyMatched
		}

		m := &models.Match{
			FromUser:  initiatorID,
			ToUser:    targetID,
			Status:    models.MatchStatusPending,
			CreatedAt: s.now(),
		}
		if err := tx.CreateMatch(ctx, m); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return ErrMatchConflict
			}
			return err
		}
		created = m
		return nil
	})
	if errors.Is(err, storage.ErrContention) {
		// the concurrent proposal holds (or committed) one of the locks
		err = ErrMatchConflict
	}
	if err != nil {
		return nil, s.fail("propose", err)
	}

	s.transitioned("propose", created, initiatorID)
	return created, nil
}

// Accept activates a pending match and flags both participants' listings as matched.
func (s *service) Accept(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	var m *models.Match
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		m, err = loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.ToUser != actorID {
			return ErrForbidden
		}
		if err := advance(ctx, tx, m, models.MatchStatusPending, models.MatchStatusActive, nil); err != nil {
			return err
		}

		for _, uid := range []uint{m.FromUser, m.ToUser} {
			u, err := tx.GetUserByID(ctx, uid)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.MarkListingsMatched(ctx, u.ID, u.Role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("accept", err)
	}

	s.transitioned("accept", m, actorID)
	return m, nil
}

// Reject declines a pending match and frees both users.
func (s *service) Reject(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	m, err := s.end(ctx, matchID, func(m *models.Match) (string, string, error) {
		if m.ToUser != actorID {
			return "", "", ErrForbidden
		}
		return models.MatchStatusPending, models.MatchStatusRejected, nil
	})
	if err != nil {
		return nil, s.fail("reject", err)
	}

	s.transitioned("reject", m, actorID)
	return m, nil
}

// Close ends an active match. Either participant may close it.
func (s *service) Close(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	m, err := s.end(ctx, matchID, func(m *models.Match) (string, string, error) {
		if !m.HasUser(actorID) {
			return "", "", ErrForbidden
		}
		return models.MatchStatusActive, models.MatchStatusClosed, nil
	})
	if err != nil {
		return nil, s.fail("close", err)
	}

	s.transitioned("close", m, actorID)
	return m, nil
}

func (s *service) ForceEnd(ctx context.Context, matchID uint) (*models.Match, error) {
	m, err := s.end(ctx, matchID, func(m *models.Match) (string, string, error) {
		if !m.IsOpen() {
			return "", "", ErrInvalidState
		}
		if m.Status == models.MatchStatusPending {
			return models.MatchStatusPending, models.MatchStatusRejected, nil
		}
		return models.MatchStatusActive, models.MatchStatusClosed, nil
	})
	if err != nil {
		return nil, s.fail("force_end", err)
	}

	s.transitioned("force_end", m, 0)
	return m, nil
}

// end moves a match into a terminal status and releases the locks in one transaction.
// decide checks ownership and returns the required source and the target status.
func (s *service) end(ctx context.Context, matchID uint, decide func(*models.Match) (string, string, error)) (*models.Match, error) {
	var m *models.Match
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		m, err = loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		from, to, err := decide(m)
		if err != nil {
			return err
		}
		endedAt := s.now()
		if endedAt.Before(m.CreatedAt) {
			endedAt = m.CreatedAt
		}
		if err := advance(ctx, tx, m, from, to, &endedAt); err != nil {
			return err
		}
		return tx.ReleaseMatchLocks(ctx, m.ID)
	})
	return m, err
}

func (s *service) Check(ctx context.Context, userA, userB uint) (bool, error) {
	ok, err := s.store.HasOpenMatchBetween(ctx, userA, userB)
	if err != nil {
		return false, s.fail("check", err)
	}
	return ok, nil
}

// List returns the user's matches, newest first, with the counterparty's profile.
func (s *service) List(ctx context.Context, userID uint) ([]models.MatchView, error) {
	matches, err := s.store.ListMatchesForUser(ctx, userID)
	if err != nil {
		return nil, s.fail("list", err)
	}

	ids := make([]uint, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].Counterpart(userID))
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail("list", err)
	}

	// one lookup per parent, not per match
	requests := make(map[uint]*models.TutorRequest)

	views := make([]models.MatchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		other := m.Counterpart(userID)
		v := models.MatchView{
			MatchID:   m.ID,
			FromUser:  m.FromUser,
			ToUser:    m.ToUser,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
			EndedAt:   m.EndedAt,
			UserID:    other,
		}
		u, ok := users[other]
		if ok {
			v.Name, v.Role, v.Phone = u.Name, u.Role, u.Phone
		}
		if ok && u.Role == models.RoleParent {
			req, seen := requests[other]
			if !seen {
				req, err = s.store.LatestTutorRequestByUser(ctx, other)
				if err != nil && !errors.Is(err, storage.ErrNotFound) {
					return nil, s.fail("list", err)
				}
				requests[other] = req
			}
			v.District, v.Address = config.PlaceholderNotProvided, config.PlaceholderNotProvided
			if req != nil {
				v.District = orPlaceholder(req.District)
				v.Address = orPlaceholder(req.Address)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func loadMatch(ctx context.Context, tx storage.Storage, id uint) (*models.Match, error) {
	m, err := tx.GetMatchByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

// advance performs a guarded status change. A match that is no longer in from,
// including one changed by a concurrent request, is an invalid state.
func advance(ctx context.Context, tx storage.Storage, m *models.Match, from, to string, endedAt *time.Time) error {
	if m.Status != from {
		return ErrInvalidState
	}
	ok, err := tx.TransitionMatch(ctx, m.ID, from, to, endedAt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	m.Status = to
	if endedAt != nil {
		m.EndedAt = endedAt
	}
	return nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return config.PlaceholderNotProvided
	}
	return s
}

// fail keeps classified errors and wraps everything else as internal.
func (s *service) fail(op string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		s.logger.Error("match operation failed", zap.String("op", op), zap.Error(err))
	}
	return apperr.Internal(err)
}

func (s *service) transitioned(event string, m *models.Match, actorID uint) {
	metrics.MatchTransitions.WithLabelValues(event).Inc()
	s.logger.Info("match transition",
		zap.String("event", event),
		zap.Uint("match_id", m.ID),
		zap.Uint("actor_id", actorID),
		zap.String("status", m.Status),
	)
}
