package models

import "time"

const (
	MatchStatusPending  = "pending"
	MatchStatusActive   = "active"
	MatchStatusRejected = "rejected"
	MatchStatusClosed   = "closed"
)

// Match represents a pairing between two users and its lifecycle state.
type Match struct {
	// ID is the auto-incremented match identifier.
	ID uint `gorm:"primaryKey" json:"id"`
	// FromUser is the initiator of the proposal.
	FromUser uint `gorm:"not null;index" json:"from_user"`
	// ToUser is the target of the proposal. Only the target may accept or reject.
	ToUser uint `gorm:"not null;index" json:"to_user"`
	// Status is one of pending, active, rejected, closed.
	Status string `gorm:"type:varchar(16);not null;index" json:"status"`
	// CreatedAt is set when the proposal is inserted.
	CreatedAt time.Time `json:"created_at"`
	// EndedAt stays nil until the match reaches a terminal status.
	EndedAt *time.Time `json:"ended_at"`
}

func (Match) TableName() string { return "matches" }

// IsOpen reports whether the match still occupies both participants.
func (m *Match) IsOpen() bool {
	return m.Status == MatchStatusPending || m.Status == MatchStatusActive
}

func (m *Match) HasUser(userID uint) bool {
	return m.FromUser == userID || m.ToUser == userID
}

// Counterpart returns the other participant from userID's point of view.
func (m *Match) Counterpart(userID uint) uint {
	if m.FromUser == userID {
		return m.ToUser
	}
	return m.FromUser
}

// MatchLock reserves a user for exactly one open match.
// UserID is the primary key, so a second open match for the same user cannot be inserted.
type MatchLock struct {
	UserID  uint `gorm:"primaryKey;autoIncrement:false"`
	MatchID uint `gorm:"not null;index"`
}

func (MatchLock) TableName() string { return "match_locks" }

// MatchView is a match annotated with the counterparty's public profile.
type MatchView struct {
	MatchID   uint       `json:"match_id"`
	FromUser  uint       `json:"from_user"`
	ToUser    uint       `json:"to_user"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at"`

	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`

	// Only filled for parent counterparties.
	District string `json:"district,omitempty"`
	Address  string `json:"address,omitempty"`
}
