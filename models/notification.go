package models

import "time"

type NotificationType string

const (
	NotificationInfo          NotificationType = "info"
	NotificationSuccess       NotificationType = "success"
	NotificationWarning       NotificationType = "warning"
	NotificationMeetingInvite NotificationType = "meeting_invite"
)

type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipientId"`
	SenderID    string           `json:"senderId,omitempty"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	Link        string           `json:"link,omitempty"`
	IsRead      bool             `json:"isRead"`
	CreatedAt   time.Time        `json:"createdAt"`
}
