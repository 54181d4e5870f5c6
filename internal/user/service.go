// Package user handles registration, login and profiles.
package user

import (
	"context"
	"errors"
	"strings"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/auth"
	"tutormatch/backend/internal/dto"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrMissingFields = apperr.Validation("user_missing_fields")
	ErrPhoneTaken    = apperr.New(apperr.KindConflict, "user_phone_taken")
	ErrNotFound      = apperr.New(apperr.KindNotFound, "user_not_found")
	ErrWrongPassword = apperr.New(apperr.KindUnauthorized, "user_wrong_password")
)

type Service interface {
	RegisterParent(ctx context.Context, req *dto.RegisterParentRequest) (*models.User, error)
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	Verify(ctx context.Context, userID uint) error
}

type service struct {
	store      storage.Storage
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

func NewService(store storage.Storage, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) Service {
	return &service{store: store, tokens: tokens, bcryptCost: bcryptCost, logger: logger.Named("user")}
}

func (s *service) RegisterParent(ctx context.Context, req *dto.RegisterParentRequest) (*models.User, error) {
	if blank(req.Name, req.Phone, req.Password) {
		return nil, ErrMissingFields
	}
	return s.register(ctx, &models.User{
		Role:  models.RoleParent,
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
	}, req.Password)
}

func (s *service) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.User, error) {
	if blank(req.Name, req.Phone, req.Password, req.School, req.Major) || req.EnrollYear <= 0 {
		return nil, ErrMissingFields
	}
	return s.register(ctx, &models.User{
		Role:       models.RoleStudent,
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		School:     strings.TrimSpace(req.School),
		Major:      strings.TrimSpace(req.Major),
		EnrollYear: req.EnrollYear,
	}, req.Password)
}

func (s *service) register(ctx context.Context, u *models.User, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u.Password = hash

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrPhoneTaken
		}
		s.logger.Error("failed to create user", zap.String("role", u.Role), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

// Login checks the phone and password and issues a credential.
func (s *service) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	if blank(phone, req.Password) {
		return nil, ErrMissingFields
	}

	u, err := s.store.GetUserByPhone(ctx, phone)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.Password, req.Password) {
		return nil, ErrWrongPassword
	}

	token, exp, err := s.tokens.Generate(u.ID, u.Role, u.Name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp, User: *u}, nil
}

func (s *service) Me(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *service) Verify(ctx context.Context, userID uint) error {
	err := s.store.SetUserVerified(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return apperr.Internal(err)
	}
	s.logger.Info("user verified", zap.Uint("user_id", userID))
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
