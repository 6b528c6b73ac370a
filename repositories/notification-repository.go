package repositories

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocql/gocql"

	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
)

type NotificationRepository struct {
	session *gocql.Session
}

// NewNotificationRepository connects to Cassandra and prepares the
// notifications keyspace and table.
func NewNotificationRepository() (*NotificationRepository, error) {
	host := os.Getenv("CASS_DB")
	if host == "" {
		host = "127.0.0.1"
	}

	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %v", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %v", err)
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notifications keyspace: %v", err)
	}

	repo := &NotificationRepository{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Info("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra notifications keyspace.")
	return repo, nil
}

func (r *NotificationRepository) CloseSession() {
	r.session.Close()
}

func (r *NotificationRepository) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			recipient_id TEXT,
			sender_id TEXT,
			title TEXT,
			message TEXT,
			type TEXT,
			link TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((recipient_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %v", err)
	}
	return nil
}

func (r *NotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}

	err := r.session.Query(
		`INSERT INTO notifications (id, recipient_id, sender_id, title, message, type, link, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.RecipientID, notification.SenderID, notification.Title,
		notification.Message, string(notification.Type), notification.Link,
		notification.CreatedAt, notification.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notification: %v", err)
	}
	return nil
}

func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	query := `SELECT id, recipient_id, sender_id, title, message, type, link, created_at, is_read
			  FROM notifications WHERE recipient_id = ?`

	iter := r.session.Query(query, recipientID).WithContext(ctx).Iter()
	var notifications []models.Notification
	var n models.Notification
	var typeTag string

	for iter.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Title, &n.Message, &typeTag, &n.Link, &n.CreatedAt, &n.IsRead) {
		n.Type = models.NotificationType(typeTag)
		notifications = append(notifications, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %v", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, recipientID, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %v", err)
	}
	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("invalid created_at format: %v", err)
	}

	query := `UPDATE notifications SET is_read = true WHERE recipient_id = ? AND id = ? AND created_at = ?`
	if err := r.session.Query(query, recipientID, uuid, parsedCreatedAt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	return nil
}

// MarkAllRead walks the recipient's unread notifications and updates each one;
// Cassandra has no multi-row update without the full primary key.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	query := `SELECT id, created_at, is_read FROM notifications WHERE recipient_id = ?`
	iter := r.session.Query(query, recipientID).WithContext(ctx).Iter()

	var id gocql.UUID
	var createdAt time.Time
	var isRead bool
	var pending [][2]interface{}

	for iter.Scan(&id, &createdAt, &isRead) {
		if !isRead {
			pending = append(pending, [2]interface{}{id, createdAt})
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("failed to list notifications: %v", err)
	}

	for _, key := range pending {
		update := `UPDATE notifications SET is_read = true WHERE recipient_id = ? AND id = ? AND created_at = ?`
		if err := r.session.Query(update, recipientID, key[0], key[1]).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("failed to mark notification as read: %v", err)
		}
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %v", err)
	}
	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("invalid created_at format: %v", err)
	}

	query := `DELETE FROM notifications WHERE recipient_id = ? AND id = ? AND created_at = ?`
	if err := r.session.Query(query, recipientID, uuid, parsedCreatedAt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to delete notification: %v", err)
	}
	return nil
}
