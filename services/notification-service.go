package services

import (
	"context"
	"time"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) Send(ctx context.Context, notification *models.Notification) error {
	if notification.RecipientID == "" || notification.Title == "" || notification.Message == "" {
		return apperrors.NewValidation("recipientId, title, and message are required")
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	notification.IsRead = false
	return s.store.Insert(ctx, notification)
}

func (s *NotificationService) GetForRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.store.GetByRecipient(ctx, recipientID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID, notificationID, createdAt string) error {
	if recipientID == "" || notificationID == "" || createdAt == "" {
		return apperrors.NewValidation("recipientId, notificationId, and createdAt are required")
	}
	return s.store.MarkAsRead(ctx, recipientID, notificationID, createdAt)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if recipientID == "" {
		return apperrors.NewValidation("recipientId is required")
	}
	return s.store.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, notificationID, createdAt string) error {
	return s.store.Delete(ctx, recipientID, notificationID, createdAt)
}
