package user_test

import (
	"context"
	"testing"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/auth"
	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/dto"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage/storagetest"
	"tutormatch/backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (user.Service, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "test-secret-0123456789"})
	return user.NewService(storagetest.NewService(t), tokens, bcrypt.MinCost, zap.NewNop()), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t)

	u, err := svc.RegisterStudent(ctx, &dto.RegisterStudentRequest{
		Name: "Amy", Phone: " 0911222333 ", Password: "pw", School: "NTU", Major: "Math", EnrollYear: 2023,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.Equal(t, "0911222333", u.Phone)
	assert.NotEqual(t, "pw", u.Password)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Phone: "0911222333", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "Amy", claims.Name)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "NTU", me.School)
	assert.False(t, me.Verified)

	require.NoError(t, svc.Verify(ctx, u.ID))
	me, err = svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, me.Verified)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.RegisterParent(ctx, &dto.RegisterParentRequest{Name: "P", Phone: "1"})
	assert.ErrorIs(t, err, user.ErrMissingFields)

	_, err = svc.RegisterStudent(ctx, &dto.RegisterStudentRequest{Name: "S", Phone: "2", Password: "pw", School: "NTU", Major: "CS"})
	assert.ErrorIs(t, err, user.ErrMissingFields, "enroll year required")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegister_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.RegisterParent(ctx, &dto.RegisterParentRequest{Name: "P", Phone: "0900", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.RegisterParent(ctx, &dto.RegisterParentRequest{Name: "Q", Phone: "0900", Password: "pw2"})
	assert.ErrorIs(t, err, user.ErrPhoneTaken)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.RegisterParent(ctx, &dto.RegisterParentRequest{Name: "P", Phone: "0900", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Phone: "0900"})
	assert.ErrorIs(t, err, user.ErrMissingFields)

	_, err = svc.Login(ctx, &dto.LoginRequest{Phone: "0999", Password: "pw"})
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.Login(ctx, &dto.LoginRequest{Phone: "0900", Password: "nope"})
	assert.ErrorIs(t, err, user.ErrWrongPassword)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestMe_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Me(context.Background(), 404)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.ErrorIs(t, svc.Verify(context.Background(), 404), user.ErrNotFound)
}
