package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
)

// Task progress values bound to each workflow state. The reject reset is
// configurable because it is a product choice, not an invariant.
const (
	ProgressStarted         = 10
	ProgressSubmitted       = 90
	ProgressDone            = 100
	DefaultRejectProgress   = 50
	recomputeRetryAttempts  = 3
	recomputeRetryBaseDelay = 100 * time.Millisecond
)

// WorkflowService owns the task status lifecycle:
//
//	not started -> in progress -> pending review -> done
//	                    ^                |
//	                    +---- reject ----+
//
// Every transition is a single versioned write; notifications and activity
// records are best-effort side effects that never block a transition.
type WorkflowService struct {
	tasks          TaskStore
	projects       ProjectStore
	notifications  NotificationStore
	activities     ActivityStore
	users          UserStore
	rejectProgress int
}

func NewWorkflowService(tasks TaskStore, projects ProjectStore, notifications NotificationStore, activities ActivityStore, users UserStore, rejectProgress int) *WorkflowService {
	if rejectProgress < 0 || rejectProgress > 100 {
		rejectProgress = DefaultRejectProgress
	}
	return &WorkflowService{
		tasks:          tasks,
		projects:       projects,
		notifications:  notifications,
		activities:     activities,
		users:          users,
		rejectProgress: rejectProgress,
	}
}

// StartTask moves a task from "not started" to "in progress". Only the
// assignee may start their own task.
func (s *WorkflowService) StartTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssigneeID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if task.Status != models.StatusNotStarted {
		return nil, apperrors.ErrInvalidTransition
	}

	from := task.Status
	task.Status = models.StatusInProgress
	task.Progress = ProgressStarted
	if err := s.commit(ctx, task, from); err != nil {
		return nil, err
	}

	actorName := s.displayName(ctx, actorID)
	s.notifyManager(ctx, task, actorID, "Task started",
		fmt.Sprintf("%s started working on: %s", actorName, task.Name), models.NotificationInfo)
	s.logActivity(ctx, models.ActivityStartTask, actorID, actorName, task)
	return task, nil
}

// SubmitTaskForReview moves a task from "in progress" to "pending review" and
// stores the review link and notes alongside the status in the same write.
func (s *WorkflowService) SubmitTaskForReview(ctx context.Context, taskID, actorID, link, notes string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssigneeID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if task.Status != models.StatusInProgress {
		return nil, apperrors.ErrInvalidTransition
	}

	from := task.Status
	task.Status = models.StatusPendingReview
	task.Progress = ProgressSubmitted
	task.ReviewLink = link
	task.ReviewNotes = notes
	if err := s.commit(ctx, task, from); err != nil {
		return nil, err
	}

	actorName := s.displayName(ctx, actorID)
	s.notifyManager(ctx, task, actorID, "Review requested",
		fmt.Sprintf("%s submitted for review: %s", actorName, task.Name), models.NotificationInfo)
	s.logActivity(ctx, models.ActivitySubmitReview, actorID, actorName, task)
	return task, nil
}

// ApproveTask moves a task from "pending review" to "done" and recomputes the
// parent project's progress.
func (s *WorkflowService) ApproveTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	if err := s.requireReviewer(ctx, actorID); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.StatusPendingReview {
		return nil, apperrors.ErrInvalidTransition
	}

	from := task.Status
	task.Status = models.StatusDone
	task.Progress = ProgressDone
	if err := s.commit(ctx, task, from); err != nil {
		return nil, err
	}

	actorName := s.displayName(ctx, actorID)
	s.notifyAssignee(ctx, task, actorID, "Task approved",
		fmt.Sprintf("%s approved: %s", actorName, task.Name), models.NotificationSuccess)
	s.logActivity(ctx, models.ActivityApproveTask, actorID, actorName, task)
	s.RecomputeAfterChange(ctx, task.ProjectID)
	return task, nil
}

// RejectTask sends a task under review back to "in progress" with a partial
// progress reset.
func (s *WorkflowService) RejectTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	if err := s.requireReviewer(ctx, actorID); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.StatusPendingReview {
		return nil, apperrors.ErrInvalidTransition
	}

	from := task.Status
	task.Status = models.StatusInProgress
	task.Progress = s.rejectProgress
	if err := s.commit(ctx, task, from); err != nil {
		return nil, err
	}

	actorName := s.displayName(ctx, actorID)
	s.notifyAssignee(ctx, task, actorID, "Changes requested",
		fmt.Sprintf("%s requested changes on: %s", actorName, task.Name), models.NotificationWarning)
	s.logActivity(ctx, models.ActivityRejectTask, actorID, actorName, task)
	return task, nil
}

// RecomputeProjectProgress derives the project's progress from its tasks and
// persists it. A project with no tasks has progress 0. The operation is
// idempotent and safe to retry.
func (s *WorkflowService) RecomputeProjectProgress(ctx context.Context, projectID string) (int, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return 0, err
	}

	tasks, err := s.tasks.GetByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	progress := 0
	if len(tasks) > 0 {
		done := 0
		for _, t := range tasks {
			if t.Status == models.StatusDone {
				done++
			}
		}
		progress = int(math.Round(float64(done) * 100 / float64(len(tasks))))
	}

	if err := s.projects.SetProgress(ctx, projectID, progress); err != nil {
		return 0, err
	}
	return progress, nil
}

// RecomputeAfterChange retries the progress recompute a few times before
// giving up with a log entry. Stale progress self-heals on the next task
// change, but transient store errors should not be the common way there.
func (s *WorkflowService) RecomputeAfterChange(ctx context.Context, projectID string) {
	var lastErr error
	for attempt := 0; attempt < recomputeRetryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(recomputeRetryBaseDelay * time.Duration(attempt))
		}
		_, err := s.RecomputeProjectProgress(ctx, projectID)
		if err == nil {
			return
		}
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			// Project deleted underneath us; nothing to recompute.
			return
		}
		lastErr = err
	}
	logging.Logger.Errorf("Event ID: PROGRESS_RECOMPUTE_FAILED, Description: Failed to recompute progress for project %s: %v", projectID, lastErr)
}

// commit writes the transition through the versioned update. When another
// writer wins the race, the re-read distinguishes a genuine conflict from a
// transition that is no longer legal.
func (s *WorkflowService) commit(ctx context.Context, task *models.Task, from models.TaskStatus) error {
	err := s.tasks.Update(ctx, task)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrConflict) {
		current, readErr := s.tasks.GetByID(ctx, task.ID.Hex())
		if readErr == nil && current.Status != from {
			return apperrors.ErrInvalidTransition
		}
		return apperrors.ErrConflict
	}
	return err
}

// requireReviewer restricts approve/reject to managers and admins.
func (s *WorkflowService) requireReviewer(ctx context.Context, actorID string) error {
	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return apperrors.ErrForbidden
	}
	if user.Role != models.RoleManager && user.Role != models.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

// notifyManager resolves the parent project's manager and sends them an
// in-app notification. A missing project or a failed insert is logged and
// swallowed; the transition has already committed.
func (s *WorkflowService) notifyManager(ctx context.Context, task *models.Task, actorID, title, message string, typeTag models.NotificationType) {
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_SKIPPED, Description: Cannot resolve manager for task %s: %v", task.ID.Hex(), err)
		return
	}
	s.send(ctx, project.ManagerID, actorID, title, message, typeTag)
}

func (s *WorkflowService) notifyAssignee(ctx context.Context, task *models.Task, actorID, title, message string, typeTag models.NotificationType) {
	s.send(ctx, task.AssigneeID, actorID, title, message, typeTag)
}

func (s *WorkflowService) send(ctx context.Context, recipientID, actorID, title, message string, typeTag models.NotificationType) {
	if recipientID == "" || recipientID == actorID {
		// Never notify users about their own actions.
		return
	}
	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    actorID,
		Title:       title,
		Message:     message,
		Type:        typeTag,
		Link:        "/tasks",
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := s.notifications.Insert(ctx, notification); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_FAILED, Description: Failed to deliver notification to %s: %v", recipientID, err)
	}
}

func (s *WorkflowService) logActivity(ctx context.Context, activityType models.ActivityType, actorID, actorName string, task *models.Task) {
	activity := &models.Activity{
		ActivityType: activityType,
		UserID:       actorID,
		UserName:     actorName,
		ProjectID:    task.ProjectID,
		TaskID:       task.ID.Hex(),
		Details:      task.Name,
		Timestamp:    time.Now(),
	}
	if err := s.activities.Insert(ctx, activity); err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_LOG_FAILED, Description: Failed to record activity %s: %v", activityType, err)
	}
}

func (s *WorkflowService) displayName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.Name == "" {
		return "A team member"
	}
	return user.Name
}
