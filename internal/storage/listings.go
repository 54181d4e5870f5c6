package storage

import (
	"context"
	"strings"

	"tutormatch/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateTutorListing(ctx context.Context, l *models.TutorListing) error {
	return translate(s.DB.WithContext(ctx).Create(l).Error)
}

func (s *Service) GetTutorListing(ctx context.Context, id uint) (*models.TutorListing, error) {
	var l models.TutorListing
	if err := s.DB.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Service) SaveTutorListing(ctx context.Context, l *models.TutorListing) error {
	return translate(s.DB.WithContext(ctx).Save(l).Error)
}

func (s *Service) DeleteTutorListing(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.TutorListing{}, id).Error
}

func (s *Service) ListTutorListingsByUser(ctx context.Context, userID uint) ([]models.TutorListing, error) {
	var out []models.TutorListing
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// ListOpenTutorListings returns unmatched offers narrowed by f, newest first.
func (s *Service) ListOpenTutorListings(ctx context.Context, f models.ListingFilter) ([]models.TutorListing, error) {
	q := s.DB.WithContext(ctx).Model(&models.TutorListing{}).Where("is_matched = ?", false)
	q = applySubjects(q, f.Subjects)
	if f.MinSalary > 0 {
		q = q.Where("salary >= ?", f.MinSalary)
	}

	var out []models.TutorListing
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (s *Service) CreateTutorRequest(ctx context.Context, r *models.TutorRequest) error {
	return translate(s.DB.WithContext(ctx).Create(r).Error)
}

func (s *Service) GetTutorRequest(ctx context.Context, id uint) (*models.TutorRequest, error) {
	var r models.TutorRequest
	if err := s.DB.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Service) SaveTutorRequest(ctx context.Context, r *models.TutorRequest) error {
	return translate(s.DB.WithContext(ctx).Save(r).Error)
}

func (s *Service) DeleteTutorRequest(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.TutorRequest{}, id).Error
}

func (s *Service) ListTutorRequestsByUser(ctx context.Context, userID uint) ([]models.TutorRequest, error) {
	var out []models.TutorRequest
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// ListOpenTutorRequests returns unmatched requests narrowed by f, newest first.
func (s *Service) ListOpenTutorRequests(ctx context.Context, f models.ListingFilter) ([]models.TutorRequest, error) {
	q := s.DB.WithContext(ctx).Model(&models.TutorRequest{}).Where("is_matched = ?", false)
	q = applySubjects(q, f.Subjects)
	if d := strings.TrimSpace(f.District); d != "" && d != models.AnyDistrict {
		q = q.Where("district = ?", d)
	}
	if f.MinSalary > 0 {
		q = q.Where("salary >= ?", f.MinSalary)
	}

	var out []models.TutorRequest
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// LatestTutorRequestByUser returns the parent's most recent request.
func (s *Service) LatestTutorRequestByUser(ctx context.Context, userID uint) (*models.TutorRequest, error) {
	var r models.TutorRequest
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// applySubjects matches any of the subjects against the array's text form.
// CAST(... AS TEXT) works for both PostgreSQL text[] and the sqlite text column.
func applySubjects(q *gorm.DB, subjects []string) *gorm.DB {
	if len(subjects) == 0 {
		return q
	}
	// text[] on PostgreSQL needs a cast; elsewhere the column is already text
	column := "subjects"
	if q.Dialector.Name() == "postgres" {
		column = "CAST(subjects AS TEXT)"
	}
	var clauses []string
	var args []interface{}
	for _, subj := range subjects {
		clauses = append(clauses, column+" LIKE ?")
		args = append(args, "%"+subj+"%")
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}
