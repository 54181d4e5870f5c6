package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tutormatch/backend/internal/api/handler"
	"tutormatch/backend/internal/api/router"
	"tutormatch/backend/internal/auth"
	"tutormatch/backend/internal/chathub"
	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/localization"
	"tutormatch/backend/internal/message"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage/storagetest"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wsEnv struct {
	server *httptest.Server
	tokens *auth.TokenManager
	hub    *chathub.Hub
	users  []models.User
}

// newWSEnv runs the real hub and message service over SQLite behind an httptest server.
func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	ctx := context.Background()
	store := storagetest.NewService(t)

	users := []models.User{
		{Role: models.RoleStudent, Name: "Amy", Phone: "0911000001", Password: "x"},
		{Role: models.RoleParent, Name: "Lin", Phone: "0911000002", Password: "x"},
	}
	for i := range users {
		require.NoError(t, store.CreateUser(ctx, &users[i]))
	}

	hub := chathub.NewHub(nil, zap.NewNop())
	messages := message.NewService(store, hub, zap.NewNop())
	hub.SetMessageSender(messages)
	hubCtx, cancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)
	t.Cleanup(cancel)

	loc, err := localization.Embedded()
	require.NoError(t, err)
	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "ws-test-secret-0123456", TokenTTL: time.Hour})
	h := handler.NewHandler(nil, nil, nil, messages, hub, tokens, zap.NewNop())
	srv := httptest.NewServer(router.New(h, router.Options{Localizer: loc, Logger: zap.NewNop()}))
	t.Cleanup(srv.Close)

	return &wsEnv{server: srv, tokens: tokens, hub: hub, users: users}
}

func (e *wsEnv) dial(t *testing.T, u models.User) *websocket.Conn {
	t.Helper()
	token, _, err := e.tokens.Generate(u.ID, u.Role, u.Name)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return e.hub.IsOnline(u.ID) }, time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) models.OutboundFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f models.OutboundFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestServeWebSocket_RejectsMissingOrBadToken(t *testing.T) {
	env := newWSEnv(t)
	base := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws"

	for _, url := range []string{base, base + "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestServeWebSocket_RelaysBetweenUsers(t *testing.T) {
	env := newWSEnv(t)
	amy, lin := env.users[0], env.users[1]
	amyConn := env.dial(t, amy)
	linConn := env.dial(t, lin)

	require.NoError(t, amyConn.WriteJSON(models.InboundFrame{ToUserID: lin.ID, Content: "hello Lin"}))

	ack := readFrame(t, amyConn)
	assert.Equal(t, models.FrameAck, ack.Type)
	assert.True(t, ack.Success)
	require.NotNil(t, ack.Message)
	assert.NotZero(t, ack.Message.ID)

	got := readFrame(t, linConn)
	assert.Equal(t, models.FrameMessage, got.Type)
	require.NotNil(t, got.Message)
	assert.Equal(t, "hello Lin", got.Message.Content)
	assert.Equal(t, amy.ID, got.Message.SenderID)
}

func TestServeWebSocket_ErrorFrames(t *testing.T) {
	env := newWSEnv(t)
	amy := env.users[0]
	conn := env.dial(t, amy)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "invalid_frame", readFrame(t, conn).Error)

	require.NoError(t, conn.WriteJSON(models.InboundFrame{FromUserID: amy.ID + 100, ToUserID: env.users[1].ID, Content: "spoof"}))
	assert.Equal(t, "sender_mismatch", readFrame(t, conn).Error)

	require.NoError(t, conn.WriteJSON(models.InboundFrame{ToUserID: 9999, Content: "anyone?"}))
	f := readFrame(t, conn)
	assert.Equal(t, models.FrameError, f.Type)
	assert.Equal(t, "message_invalid_receiver", f.Error)
}

func TestServeWebSocket_DisconnectUnregisters(t *testing.T) {
	env := newWSEnv(t)
	lin := env.users[1]
	conn := env.dial(t, lin)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !env.hub.IsOnline(lin.ID) }, 2*time.Second, 10*time.Millisecond)
}

// conversations fetches u's conversation list over HTTP.
func (e *wsEnv) conversations(t *testing.T, u models.User) []models.Conversation {
	t.Helper()
	token, _, err := e.tokens.Generate(u.ID, u.Role, u.Name)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/api/messages/conversations", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	var convs []models.Conversation
	require.NoError(t, json.Unmarshal(body.Data, &convs))
	return convs
}

func TestConversations_OnlineFlag(t *testing.T) {
	env := newWSEnv(t)
	amy, lin := env.users[0], env.users[1]
	amyConn := env.dial(t, amy)

	require.NoError(t, amyConn.WriteJSON(models.InboundFrame{ToUserID: lin.ID, Content: "are you there?"}))
	require.True(t, readFrame(t, amyConn).Success)

	convs := env.conversations(t, lin)
	require.Len(t, convs, 1)
	assert.Equal(t, amy.ID, convs[0].UserID)
	assert.True(t, convs[0].Online)

	// Lin never connected
	convs = env.conversations(t, amy)
	require.Len(t, convs, 1)
	assert.False(t, convs[0].Online)

	require.NoError(t, amyConn.Close())
	assert.Eventually(t, func() bool { return !env.conversations(t, lin)[0].Online }, 2*time.Second, 10*time.Millisecond)
}
