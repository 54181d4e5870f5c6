package models

const (
	FrameMessage = "message"
	FrameAck     = "ack"
	FrameError   = "error"
)

// InboundFrame is what a WebSocket client sends to relay a message.
type InboundFrame struct {
	FromUserID uint   `json:"from_user_id,omitempty"` // optional, must match the socket owner
	ToUserID   uint   `json:"to_user_id"`
	Content    string `json:"content"`
}

// OutboundFrame is written to WebSocket clients.
type OutboundFrame struct {
	Type    string   `json:"type"` // "message", "ack", "error"
	Success bool     `json:"success,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// Delivery is a persisted message on its way to live subscribers.
// It is what travels over the Redis channel between instances.
type Delivery struct {
	Message Message `json:"message"`
	// OriginConnID is the subscription that sent the message; it gets an ack instead of a copy.
	OriginConnID string `json:"origin_conn_id,omitempty"`
}
