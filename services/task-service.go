package services

import (
	"context"
	"time"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
)

type TaskService struct {
	tasks      TaskStore
	projects   ProjectStore
	users      UserStore
	activities ActivityStore
	workflow   *WorkflowService
}

func NewTaskService(tasks TaskStore, projects ProjectStore, users UserStore, activities ActivityStore, workflow *WorkflowService) *TaskService {
	return &TaskService{
		tasks:      tasks,
		projects:   projects,
		users:      users,
		activities: activities,
		workflow:   workflow,
	}
}

// CreateTask creates a task in the "not started" state with exactly one
// assignee and triggers a progress recompute on the parent project.
func (s *TaskService) CreateTask(ctx context.Context, task *models.Task, actorID string) (*models.Task, error) {
	if task.Name == "" {
		return nil, apperrors.NewValidation("task name is required")
	}
	if task.AssigneeID == "" {
		return nil, apperrors.NewValidation("task assignee is required")
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := validateTaskDates(task, project); err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, task.AssigneeID)
	if err != nil {
		return nil, err
	}
	task.AssigneeName = assignee.Name

	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	task.Status = models.StatusNotStarted
	task.Progress = 0
	task.ReviewLink = ""
	task.ReviewNotes = ""
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	s.logActivity(ctx, models.ActivityCreateTask, actorID, task)
	s.workflow.RecomputeAfterChange(ctx, task.ProjectID)
	return task, nil
}

// UpdateTask edits task metadata. Status and progress are owned by the
// workflow transitions and cannot be changed here.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, in *models.Task) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		task.Name = in.Name
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if !in.StartDate.IsZero() {
		task.StartDate = in.StartDate
	}
	if !in.DueDate.IsZero() {
		task.DueDate = in.DueDate
	}
	if in.AssigneeID != "" && in.AssigneeID != task.AssigneeID {
		assignee, err := s.users.GetByID(ctx, in.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = in.AssigneeID
		task.AssigneeName = assignee.Name
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := validateTaskDates(task, project); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task and recomputes the former parent project's
// progress.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	s.logActivity(ctx, models.ActivityDeleteTask, actorID, task)
	s.workflow.RecomputeAfterChange(ctx, task.ProjectID)
	return nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.tasks.GetAll(ctx)
}

func (s *TaskService) GetTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.tasks.GetByProject(ctx, projectID)
}

func (s *TaskService) GetTasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return s.tasks.GetByStatus(ctx, status)
}

func (s *TaskService) GetTasksByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return s.tasks.GetByAssignee(ctx, userID)
}

func (s *TaskService) GetHighPriorityTasks(ctx context.Context) ([]models.Task, error) {
	return s.tasks.GetHighPriority(ctx, 10)
}

func (s *TaskService) logActivity(ctx context.Context, activityType models.ActivityType, actorID string, task *models.Task) {
	actorName := "A team member"
	if user, err := s.users.GetByID(ctx, actorID); err == nil && user.Name != "" {
		actorName = user.Name
	}
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

func validateTaskDates(task *models.Task, project *models.Project) error {
	if task.DueDate.Before(task.StartDate) {
		return apperrors.NewValidation("task due date must not precede its start date")
	}
	if !project.StartDate.IsZero() && task.StartDate.Before(project.StartDate) {
		return apperrors.NewValidation("task start date must not precede the project start date")
	}
	return nil
}
