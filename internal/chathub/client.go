package chathub

import "tutormatch/backend/internal/models"

// Client is one live subscription of a user (one WebSocket connection).
// A user may hold several subscriptions at once, e.g. a phone and a laptop.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() uint
	// GetConnID returns the unique id of this subscription.
	GetConnID() string

	// GetSendChannel returns the channel the hub writes frames to.
	// Only the hub goroutine sends on it, and only the hub closes it via Close.
	GetSendChannel() chan<- models.OutboundFrame

	// Run starts the client's read and write pumps.
	Run()
	// Close closes the send channel, which stops the write pump and the connection.
	Close()
}
