package chathub

import (
	"context"
	"encoding/json"
	"time"

	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = config.MaxMessageSize
	sendTimeout    = 5 * time.Second
)

// WebSocketClient реалізує інтерфейс chathub.Client
type WebSocketClient struct {
	UserID uint
	ConnID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.OutboundFrame
}

func NewWebSocketClient(hub *Hub, conn *websocket.Conn, userID uint) *WebSocketClient {
	return &WebSocketClient{
		UserID: userID,
		ConnID: uuid.NewString(),
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.OutboundFrame, config.ClientSendBuffer),
	}
}

func (c *WebSocketClient) GetUserID() uint                             { return c.UserID }
func (c *WebSocketClient) GetConnID() string                           { return c.ConnID }
func (c *WebSocketClient) GetSendChannel() chan<- models.OutboundFrame { return c.Send }

// Run запускає 'pumps' для WebSocket
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває Send канал (що зупинить writePump)
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("websocket read error", zap.Uint("user_id", c.UserID), zap.Error(err))
			}
			return
		}

		var in models.InboundFrame
		if err := json.Unmarshal(data, &in); err != nil {
			c.Hub.reply(c, errorFrame("invalid_frame"))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		c.Hub.HandleInbound(ctx, c, in)
		cancel()
	}
}

// writePump читає кадри з каналу Send і записує їх у WebSocket.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито хабом
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
