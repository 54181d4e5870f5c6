package handler

import (
	"net/http"

	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/auth"
	"tutormatch/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is checked by CORS for the REST API; browsers cannot set headers on WS, token is required anyway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsToken reads the credential from the Authorization header or the ?token= query parameter.
func wsToken(c *gin.Context) (string, bool) {
	if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
		return token, true
	}
	token := c.Query("token")
	return token, token != ""
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket
func (h *Handler) ServeWebSocket(c *gin.Context) {
	raw, ok := wsToken(c)
	if !ok {
		response.Fail(c, apperr.ErrUnauthorized)
		return
	}
	claims, err := h.Tokens.Parse(raw)
	if err != nil {
		response.Fail(c, apperr.ErrUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.Logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, claims.ID)
	if !h.Hub.Register(client) {
		// hub is shutting down
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	client.Run()
}
