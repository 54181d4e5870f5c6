package storage

import (
	"context"
	"time"

	"tutormatch/backend/internal/models"
)

var openStatuses = []string{models.MatchStatusPending, models.MatchStatusActive}

// CreateUser зберігає користувача в PostgreSQL
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUsersByIDs loads users in one query; missing ids are simply absent from the map.
func (s *Service) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *Service) SetUserVerified(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMatch inserts the match and one lock row per participant.
// A participant who already holds a lock makes this fail with ErrDuplicate;
// losing a lock race to a concurrent transaction yields ErrContention.
func (s *Service) CreateMatch(ctx context.Context, m *models.Match) error {
	db := s.DB.WithContext(ctx)
	if err := db.Create(m).Error; err != nil {
		return translate(err)
	}
	// Ascending user order: overlapping proposals queue on the same key
	// instead of deadlocking on each other's rows.
	lo, hi := m.FromUser, m.ToUser
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, uid := range []uint{lo, hi} {
		if err := db.Create(&models.MatchLock{UserID: uid, MatchID: m.ID}).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *Service) GetMatchByID(ctx context.Context, id uint) (*models.Match, error) {
	var m models.Match
	if err := s.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// HasOpenMatch перевіряє, чи бере користувач участь у pending/active матчі.
func (s *Service) HasOpenMatch(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Match{}).
		Where("status IN ?", openStatuses).
		Where("from_user = ? OR to_user = ?", userID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) HasOpenMatchBetween(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Match{}).
		Where("status IN ?", openStatuses).
		Where("(from_user = ? AND to_user = ?) OR (from_user = ? AND to_user = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// TransitionMatch moves the match from one status to another only if it is still in from.
// It reports false when another writer got there first.
func (s *Service) TransitionMatch(ctx context.Context, id uint, from, to string, endedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if endedAt != nil {
		updates["ended_at"] = *endedAt
	}
	res := s.DB.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Service) ReleaseMatchLocks(ctx context.Context, matchID uint) error {
	return s.DB.WithContext(ctx).Where("match_id = ?", matchID).Delete(&models.MatchLock{}).Error
}

// ListMatchesForUser returns every match of the user, newest first.
func (s *Service) ListMatchesForUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.WithContext(ctx).
		Where("from_user = ? OR to_user = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&matches).Error
	return matches, err
}

// MarkListingsMatched flags all listings of the user's kind as matched.
func (s *Service) MarkListingsMatched(ctx context.Context, userID uint, role string) error {
	db := s.DB.WithContext(ctx)
	switch role {
	case models.RoleStudent:
		return db.Model(&models.TutorListing{}).Where("user_id = ?", userID).Update("is_matched", true).Error
	case models.RoleParent:
		return db.Model(&models.TutorRequest{}).Where("user_id = ?", userID).Update("is_matched", true).Error
	default:
		return nil
	}
}
