package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/localization"
	"tutormatch/backend/internal/match"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(t *testing.T, lang string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	loc, err := localization.Embedded()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	response.SetLocale(c, loc, lang)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOKAndCreated(t *testing.T) {
	c, w := newContext(t, "en")
	response.OK(c, "ok", gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "OK", body["message"])
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body["data"])
	assert.NotContains(t, body, "code")

	c, w = newContext(t, "zh-TW")
	response.Created(c, "match_proposed", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	body = decode(t, w)
	assert.Equal(t, "已送出媒合邀請", body["message"])
	assert.NotContains(t, body, "data")
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		lang       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"conflict", match.ErrTargetAlreadyMatched, "en", http.StatusConflict, "match_target_already_matched", "The other user already has a pending or active match"},
		{"invalid state localized", match.ErrInvalidState, "zh-TW", http.StatusBadRequest, "match_invalid_state", "目前的媒合狀態無法執行此操作"},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), match.ErrNotFound), "en", http.StatusNotFound, "match_not_found", "Match not found"},
		{"rate limited", apperr.ErrRateLimited, "en", http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again later"},
		{"internal hides cause", apperr.Internal(errors.New("pq: connection refused")), "en", http.StatusInternalServerError, "internal_error", "Internal server error"},
		{"plain error", errors.New("boom"), "en", http.StatusInternalServerError, "internal_error", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(t, tt.lang)
			response.Fail(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			body := decode(t, w)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestFail_InternalIsRecordedOnContext(t *testing.T) {
	c, _ := newContext(t, "en")
	response.Fail(c, errors.New("db down"))
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors.String(), "db down")

	c, _ = newContext(t, "en")
	response.Fail(c, match.ErrForbidden)
	assert.Empty(t, c.Errors)
}

func TestWithoutLocalizerFallsBackToKey(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	response.OK(c, "ok", nil)
	assert.Equal(t, "ok", decode(t, w)["message"])
	assert.Equal(t, "en", response.Language(c))
}
