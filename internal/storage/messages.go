package storage

import (
	"context"

	"tutormatch/backend/internal/models"
)

// CreateMessage зберігає повідомлення в PostgreSQL та заповнює його ID
func (s *Service) CreateMessage(ctx context.Context, msg *models.Message) error {
	return translate(s.DB.WithContext(ctx).Create(msg).Error)
}

// ListConversation returns all messages between a and b, oldest first.
func (s *Service) ListConversation(ctx context.Context, a, b uint) ([]models.Message, error) {
	var history []models.Message
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Order("id ASC").
		Find(&history).Error
	return history, err
}

// ListMessagesForUser returns every message the user sent or received, newest first.
func (s *Service) ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var history []models.Message
	err := s.DB.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&history).Error
	return history, err
}
