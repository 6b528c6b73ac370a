package services

import (
	"context"
	"testing"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

func TestSendNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store)

	err := svc.Send(context.Background(), &models.Notification{
		RecipientID: "user-1",
		Title:       "Hello",
		Message:     "World",
		Type:        models.NotificationInfo,
		IsRead:      true, // must be forced back to unread
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if store.count() != 1 {
		t.Fatalf("expected 1 stored notification, got %d", store.count())
	}
	sent := store.last()
	if sent.IsRead {
		t.Errorf("new notifications must be unread")
	}
	if sent.CreatedAt.IsZero() {
		t.Errorf("CreatedAt should be stamped")
	}
}

func TestSendNotificationValidation(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{})

	cases := []models.Notification{
		{Title: "No recipient", Message: "m"},
		{RecipientID: "user-1", Message: "m"},
		{RecipientID: "user-1", Title: "No message"},
	}
	for _, n := range cases {
		notification := n
		if err := svc.Send(context.Background(), &notification); err == nil || apperrors.StatusCode(err) != 400 {
			t.Errorf("expected validation error for %+v, got %v", n, err)
		}
	}
}

func TestMarkAsReadValidation(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{})

	if err := svc.MarkAsRead(context.Background(), "user-1", "", "2026-01-01T00:00:00Z"); err == nil || apperrors.StatusCode(err) != 400 {
		t.Errorf("expected validation error for empty notification id, got %v", err)
	}
	if err := svc.MarkAllRead(context.Background(), ""); err == nil || apperrors.StatusCode(err) != 400 {
		t.Errorf("expected validation error for empty recipient, got %v", err)
	}
}
