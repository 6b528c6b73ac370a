package services

import (
	"context"

	"github.com/truongtn-dev/project-management/models"
)

// Store contracts implemented by the repositories package. Services depend on
// these rather than on Mongo/Cassandra directly so the business rules can be
// exercised against in-memory fakes.

type TaskStore interface {
	GetByID(ctx context.Context, taskID string) (*models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, taskID string) error
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByProject(ctx context.Context, projectID string) ([]models.Task, error)
	GetByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	GetByAssignee(ctx context.Context, userID string) ([]models.Task, error)
	GetHighPriority(ctx context.Context, limit int64) ([]models.Task, error)
	HasActiveForAssignee(ctx context.Context, projectID, userID string) (bool, error)
	RefreshAssigneeName(ctx context.Context, userID, name string) error
}

type ProjectStore interface {
	GetByID(ctx context.Context, projectID string) (*models.Project, error)
	Insert(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	SetProgress(ctx context.Context, projectID string, progress int) error
	DeleteWithTasks(ctx context.Context, projectID string) error
	GetAll(ctx context.Context) ([]models.Project, error)
	GetByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateName(ctx context.Context, userID, name string) error
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
	GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, recipientID, notificationID, createdAt string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID, notificationID, createdAt string) error
}

type ActivityStore interface {
	Insert(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int64) ([]models.Activity, error)
}

type MeetingStore interface {
	GetByID(ctx context.Context, meetingID string) (*models.Meeting, error)
	Insert(ctx context.Context, meeting *models.Meeting) error
	Update(ctx context.Context, meeting *models.Meeting) error
	Delete(ctx context.Context, meetingID string) error
	GetAll(ctx context.Context) ([]models.Meeting, error)
	GetByParticipant(ctx context.Context, userID string) ([]models.Meeting, error)
}

// EmailSender delivers outbound mail. Failures are treated as best-effort by
// every caller.
type EmailSender interface {
	Send(to, subject, body string) error
}
