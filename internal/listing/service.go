// Package listing manages tutoring offers (students) and tutoring requests (parents).
package listing

import (
	"context"
	"errors"
	"strings"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/dto"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrMissingFields = apperr.Validation("listing_missing_fields")
	ErrInvalidType   = apperr.Validation("listing_invalid_type")
	ErrNotFound      = apperr.New(apperr.KindNotFound, "listing_not_found")
	ErrForbidden     = apperr.New(apperr.KindForbidden, "listing_forbidden")
	ErrWrongRole     = apperr.New(apperr.KindForbidden, "listing_wrong_role")
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

type Service interface {
	CreateOffer(ctx context.Context, actor Actor, in *dto.OfferInput) (*models.TutorListing, error)
	UpdateOffer(ctx context.Context, actor Actor, id uint, in *dto.OfferInput) (*models.TutorListing, error)
	DeleteOffer(ctx context.Context, actor Actor, id uint) error
	MyOffers(ctx context.Context, actor Actor) ([]models.TutorListing, error)
	PublicOffers(ctx context.Context) ([]models.TutorListing, error)

	CreateRequest(ctx context.Context, actor Actor, in *dto.RequestInput) (*models.TutorRequest, error)
	UpdateRequest(ctx context.Context, actor Actor, id uint, in *dto.RequestInput) (*models.TutorRequest, error)
	DeleteRequest(ctx context.Context, actor Actor, id uint) error
	MyRequests(ctx context.Context, actor Actor) ([]models.TutorRequest, error)
	PublicRequests(ctx context.Context) ([]models.TutorRequest, error)

	// Filter returns []models.TutorListing for type "do" and []models.TutorRequest for "find".
	Filter(ctx context.Context, q *dto.FilterQuery) (interface{}, error)
}

type service struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewService(store storage.Storage, logger *zap.Logger) Service {
	return &service{store: store, logger: logger.Named("listing")}
}

func validOffer(in *dto.OfferInput) bool {
	return len(in.Subjects) > 0 && in.Salary > 0 && len(in.AvailableDays) > 0 &&
		!blank(in.Intro, in.StartTime, in.EndTime)
}

func validRequest(in *dto.RequestInput) bool {
	return len(in.Subjects) > 0 && in.Salary > 0 && len(in.Days) > 0 &&
		!blank(in.ChildName, in.Phone, in.District)
}

func (s *service) CreateOffer(ctx context.Context, actor Actor, in *dto.OfferInput) (*models.TutorListing, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrWrongRole
	}
	if !validOffer(in) {
		return nil, ErrMissingFields
	}

	owner, err := s.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, s.internal("load owner", err)
	}

	l := &models.TutorListing{UserID: owner.ID, Name: owner.Name, Phone: owner.Phone}
	applyOffer(l, in)
	if err := s.store.CreateTutorListing(ctx, l); err != nil {
		return nil, s.internal("create offer", err)
	}
	return l, nil
}

func (s *service) UpdateOffer(ctx context.Context, actor Actor, id uint, in *dto.OfferInput) (*models.TutorListing, error) {
	if !validOffer(in) {
		return nil, ErrMissingFields
	}
	l, err := s.ownOffer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyOffer(l, in)
	if err := s.store.SaveTutorListing(ctx, l); err != nil {
		return nil, s.internal("update offer", err)
	}
	return l, nil
}

func (s *service) DeleteOffer(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.ownOffer(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteTutorListing(ctx, id); err != nil {
		return s.internal("delete offer", err)
	}
	return nil
}

func (s *service) MyOffers(ctx context.Context, actor Actor) ([]models.TutorListing, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrWrongRole
	}
	out, err := s.store.ListTutorListingsByUser(ctx, actor.ID)
	if err != nil {
		return nil, s.internal("my offers", err)
	}
	return out, nil
}

func (s *service) PublicOffers(ctx context.Context) ([]models.TutorListing, error) {
	out, err := s.store.ListOpenTutorListings(ctx, models.ListingFilter{Kind: models.ListingOffer})
	if err != nil {
		return nil, s.internal("public offers", err)
	}
	return out, nil
}

func (s *service) ownOffer(ctx context.Context, actor Actor, id uint) (*models.TutorListing, error) {
	l, err := s.store.GetTutorListing(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("load offer", err)
	}
	if l.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return l, nil
}

func applyOffer(l *models.TutorListing, in *dto.OfferInput) {
	l.Subjects = models.Tags(in.Subjects)
	l.Salary = in.Salary
	l.SalaryNote = strings.TrimSpace(in.SalaryNote)
	l.Intro = strings.TrimSpace(in.Intro)
	l.AvailableDays = models.Tags(in.AvailableDays)
	l.StartTime = strings.TrimSpace(in.StartTime)
	l.EndTime = strings.TrimSpace(in.EndTime)
}

func (s *service) CreateRequest(ctx context.Context, actor Actor, in *dto.RequestInput) (*models.TutorRequest, error) {
	if actor.Role != models.RoleParent {
		return nil, ErrWrongRole
	}
	if !validRequest(in) {
		return nil, ErrMissingFields
	}

	r := &models.TutorRequest{UserID: actor.ID}
	applyRequest(r, in)
	if err := s.store.CreateTutorRequest(ctx, r); err != nil {
		return nil, s.internal("create request", err)
	}
	return r, nil
}

func (s *service) UpdateRequest(ctx context.Context, actor Actor, id uint, in *dto.RequestInput) (*models.TutorRequest, error) {
	if !validRequest(in) {
		return nil, ErrMissingFields
	}
	r, err := s.ownRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyRequest(r, in)
	if err := s.store.SaveTutorRequest(ctx, r); err != nil {
		return nil, s.internal("update request", err)
	}
	return r, nil
}

func (s *service) DeleteRequest(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.ownRequest(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteTutorRequest(ctx, id); err != nil {
		return s.internal("delete request", err)
	}
	return nil
}

func (s *service) MyRequests(ctx context.Context, actor Actor) ([]models.TutorRequest, error) {
	if actor.Role != models.RoleParent {
		return nil, ErrWrongRole
	}
	out, err := s.store.ListTutorRequestsByUser(ctx, actor.ID)
	if err != nil {
		return nil, s.internal("my requests", err)
	}
	return out, nil
}

func (s *service) PublicRequests(ctx context.Context) ([]models.TutorRequest, error) {
	out, err := s.store.ListOpenTutorRequests(ctx, models.ListingFilter{Kind: models.ListingRequest})
	if err != nil {
		return nil, s.internal("public requests", err)
	}
	return out, nil
}

func (s *service) ownRequest(ctx context.Context, actor Actor, id uint) (*models.TutorRequest, error) {
	r, err := s.store.GetTutorRequest(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("load request", err)
	}
	if r.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return r, nil
}

func applyRequest(r *models.TutorRequest, in *dto.RequestInput) {
	r.ChildName = strings.TrimSpace(in.ChildName)
	r.Phone = strings.TrimSpace(in.Phone)
	r.District = strings.TrimSpace(in.District)
	r.Address = strings.TrimSpace(in.Address)
	r.Salary = in.Salary
	r.Subjects = models.Tags(in.Subjects)
	r.Days = models.Tags(in.Days)
	r.Note = strings.TrimSpace(in.Note)
}

func (s *service) Filter(ctx context.Context, q *dto.FilterQuery) (interface{}, error) {
	f := models.ListingFilter{
		Kind:      models.ListingKind(strings.TrimSpace(q.Type)),
		Subjects:  dto.ParseTags(q.Subjects),
		District:  strings.TrimSpace(q.District),
		MinSalary: q.MinSalary,
	}

	switch f.Kind {
	case models.ListingOffer:
		out, err := s.store.ListOpenTutorListings(ctx, f)
		if err != nil {
			return nil, s.internal("filter offers", err)
		}
		return out, nil
	case models.ListingRequest:
		out, err := s.store.ListOpenTutorRequests(ctx, f)
		if err != nil {
			return nil, s.internal("filter requests", err)
		}
		return out, nil
	default:
		return nil, ErrInvalidType
	}
}

func (s *service) internal(op string, err error) error {
	s.logger.Error("listing operation failed", zap.String("op", op), zap.Error(err))
	return apperr.Internal(err)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
