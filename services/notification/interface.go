package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "hireloop/database/repository/notification"
	"hireloop/models"
	"hireloop/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService delivers in-app notifications. Delivery is best
// effort; lifecycle transitions never wait on it or roll back because of it.
type NotificationService interface {
	Deliver(ctx context.Context, payload models.NotificationPayload) error
	ListForRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// DefaultNotificationService writes notification records to the feed store.
type DefaultNotificationService struct {
	Repo notificationRepo.NotificationRepository
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository) (*DefaultNotificationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification service initialization error: repository is nil")
	}
	return &DefaultNotificationService{Repo: repo}, nil
}

func (s *DefaultNotificationService) Deliver(ctx context.Context, payload models.NotificationPayload) error {
	record := &models.Notification{
		ID:          uuid.New().String(),
		RecipientID: payload.RecipientID,
		Title:       payload.Title,
		Body:        payload.Body,
		Data:        payload.Data,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return fmt.Errorf("deliver notification to %s: %w", payload.RecipientID, err)
	}
	utils.GetLogger().Info("notification delivered",
		zap.String("recipient", payload.RecipientID),
		zap.String("title", payload.Title),
	)
	return nil
}

func (s *DefaultNotificationService) ListForRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	return s.Repo.ListByRecipient(ctx, recipientID, limit)
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, id string) error {
	return s.Repo.MarkRead(ctx, id)
}
