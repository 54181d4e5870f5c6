package router_test

import (
	"testing"

	"tutormatch/backend/internal/api/handler"
	"tutormatch/backend/internal/api/router"
	"tutormatch/backend/internal/localization"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	loc, err := localization.Embedded()
	require.NoError(t, err)

	h := handler.NewHandler(nil, nil, nil, nil, nil, nil, zap.NewNop())
	r := router.New(h, router.Options{Localizer: loc, Logger: zap.NewNop()})

	got := make(map[string]bool)
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/auth/login",
		"POST /api/users/register/parent",
		"POST /api/users/register/student",
		"GET /api/users/me",
		"POST /api/matches",
		"GET /api/matches/my",
		"GET /api/matches/check/:userId",
		"PUT /api/matches/:id/accept",
		"PUT /api/matches/:id/reject",
		"PUT /api/matches/:id/close",
		"POST /api/tutors",
		"GET /api/tutors",
		"GET /api/tutors/my",
		"GET /api/tutors/filter",
		"PUT /api/tutors/:id",
		"DELETE /api/tutors/:id",
		"POST /api/find-tutors",
		"GET /api/find-tutors",
		"GET /api/find-tutors/my",
		"PUT /api/find-tutors/:id",
		"DELETE /api/find-tutors/:id",
		"POST /api/messages/send",
		"GET /api/messages/chat/:userId",
		"GET /api/messages/conversations",
		"GET /ws",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}
