// Package message stores direct messages and hands them to the live relay.
package message

import (
	"context"
	"errors"
	"strings"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/metrics"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrMissingFields   = apperr.Validation("message_missing_fields")
	ErrInvalidReceiver = apperr.Validation("message_invalid_receiver")
)

// Notifier pushes a stored message to live subscribers.
type Notifier interface {
	Deliver(ctx context.Context, msg models.Message)
}

type Service interface {
	// Send persists the message and pushes it to the relay. channel labels the metric ("rest", "ws").
	Send(ctx context.Context, senderID, receiverID uint, content, channel string) (*models.Message, error)
	Chat(ctx context.Context, userID, otherID uint) ([]models.Message, error)
	Conversations(ctx context.Context, userID uint) ([]models.Conversation, error)
}

type service struct {
	store    storage.Storage
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the service; notifier may be nil when there is no relay.
func NewService(store storage.Storage, notifier Notifier, logger *zap.Logger) Service {
	return &service{store: store, notifier: notifier, logger: logger.Named("message")}
}

func (s *service) Send(ctx context.Context, senderID, receiverID uint, content, channel string) (*models.Message, error) {
	if receiverID == 0 || strings.TrimSpace(content) == "" {
		return nil, ErrMissingFields
	}
	if receiverID == senderID {
		return nil, ErrInvalidReceiver
	}
	if _, err := s.store.GetUserByID(ctx, receiverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidReceiver
		}
		return nil, s.internal("load receiver", err)
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, s.internal("create message", err)
	}
	metrics.Messages.WithLabelValues(channel).Inc()

	if s.notifier != nil {
		s.notifier.Deliver(ctx, *msg)
	}
	return msg, nil
}

func (s *service) Chat(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	if otherID == 0 {
		return nil, ErrMissingFields
	}
	history, err := s.store.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, s.internal("chat history", err)
	}
	return history, nil
}

// Conversations returns one row per counterpart with the latest message, newest first.
func (s *service) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	history, err := s.store.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, s.internal("conversations", err)
	}

	// history is newest first, so the first message per counterpart is the latest
	latest := make(map[uint]models.Message)
	var order []uint
	for _, m := range history {
		other := m.Counterpart(userID)
		if _, ok := latest[other]; ok {
			continue
		}
		latest[other] = m
		order = append(order, other)
	}

	users, err := s.store.GetUsersByIDs(ctx, order)
	if err != nil {
		return nil, s.internal("conversation users", err)
	}

	out := make([]models.Conversation, 0, len(order))
	for _, other := range order {
		name := config.PlaceholderUnknownUser
		if u, ok := users[other]; ok {
			name = u.Name
		}
		m := latest[other]
		out = append(out, models.Conversation{
			UserID:      other,
			Name:        name,
			LastMessage: m.Content,
			Timestamp:   m.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) internal(op string, err error) error {
	s.logger.Error("message operation failed", zap.String("op", op), zap.Error(err))
	return apperr.Internal(err)
}
