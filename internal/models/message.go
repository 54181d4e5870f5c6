package models

import "time"

// Message represents a saved direct message in the PostgreSQL database.
// Messages are append-only; a conversation is ordered by CreatedAt, then ID.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// SenderID is the user who wrote the message.
	SenderID uint `gorm:"not null;index:idx_messages_pair" json:"sender_id"`
	// ReceiverID is the user the message is addressed to.
	ReceiverID uint `gorm:"not null;index:idx_messages_pair" json:"receiver_id"`
	// Content is the message text.
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// Counterpart returns the other side of the message for userID.
func (m *Message) Counterpart(userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation is one row of a user's conversation list.
type Conversation struct {
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
	// Online is set by the HTTP layer from this instance's live subscriptions.
	Online bool `json:"online"`
}
