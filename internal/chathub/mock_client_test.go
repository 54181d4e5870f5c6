package chathub_test

import (
	"sync"

	"tutormatch/backend/internal/models"
)

type MockClient struct {
	userID      uint
	connID      string
	RecvChannel chan models.OutboundFrame

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID uint, connID string) *MockClient {
	return newMockClientBuffered(userID, connID, 10)
}

func newMockClientBuffered(userID uint, connID string, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		connID:      connID,
		RecvChannel: make(chan models.OutboundFrame, buffer),
	}
}

func (c *MockClient) GetUserID() uint   { return c.userID }
func (c *MockClient) GetConnID() string { return c.connID }

func (c *MockClient) GetSendChannel() chan<- models.OutboundFrame {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
