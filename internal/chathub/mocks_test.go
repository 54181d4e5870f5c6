package chathub_test

import (
	"context"

	"tutormatch/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockSender is a testify mock of chathub.MessageSender.
type MockSender struct {
	mock.Mock
	// deliver, when set, plays the message service's part of pushing the stored message back.
	deliver func(ctx context.Context, msg models.Message)
}

func (m *MockSender) Send(ctx context.Context, senderID, receiverID uint, content, channel string) (*models.Message, error) {
	args := m.Called(senderID, receiverID, content, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	msg := args.Get(0).(*models.Message)
	if m.deliver != nil {
		m.deliver(ctx, *msg)
	}
	return msg, args.Error(1)
}

// MockBroker is a testify mock of chathub.Broker.
type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) PublishDelivery(ctx context.Context, d models.Delivery) error {
	args := m.Called(d)
	return args.Error(0)
}

func (m *MockBroker) SubscribeDeliveries(ctx context.Context) (<-chan models.Delivery, func() error, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan models.Delivery), args.Get(1).(func() error), args.Error(2)
}
