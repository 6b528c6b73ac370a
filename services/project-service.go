package services

import (
	"context"
	"time"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
)

type ProjectService struct {
	projects   ProjectStore
	tasks      TaskStore
	users      UserStore
	activities ActivityStore
}

func NewProjectService(projects ProjectStore, tasks TaskStore, users UserStore, activities ActivityStore) *ProjectService {
	return &ProjectService{
		projects:   projects,
		tasks:      tasks,
		users:      users,
		activities: activities,
	}
}

// CreateProject creates a project owned by the given manager. Progress always
// starts at zero; it is a derived value from day one.
func (s *ProjectService) CreateProject(ctx context.Context, project *models.Project, managerID string) (*models.Project, error) {
	if project.Name == "" {
		return nil, apperrors.NewValidation("project name is required")
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, apperrors.NewValidation("project end date must not precede its start date")
	}
	if _, err := s.users.GetByID(ctx, managerID); err != nil {
		return nil, err
	}

	project.ManagerID = managerID
	if project.Status == "" {
		project.Status = models.ProjectActive
	}
	if project.MemberIDs == nil {
		project.MemberIDs = []string{}
	}
	project.Progress = 0
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}

	s.logActivity(ctx, models.ActivityCreateProject, managerID, project.ID.Hex(), project.Name)
	return project, nil
}

// UpdateProject edits project metadata. Client-supplied progress is ignored:
// the field is recomputed from tasks and never accepted as input.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, in *models.Project) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		project.Name = in.Name
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Status != "" {
		project.Status = in.Status
	}
	if !in.StartDate.IsZero() {
		project.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		project.EndDate = in.EndDate
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, apperrors.NewValidation("project end date must not precede its start date")
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProjectAndTasks removes the project together with all of its tasks as
// one atomic unit.
func (s *ProjectService) DeleteProjectAndTasks(ctx context.Context, projectID, actorID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.projects.DeleteWithTasks(ctx, projectID); err != nil {
		return err
	}

	s.logActivity(ctx, models.ActivityDeleteProject, actorID, projectID, project.Name)
	return nil
}

// AddMembersToProject resolves each user and adds the missing ones to the
// member set.
func (s *ProjectService) AddMembersToProject(ctx context.Context, projectID string, memberIDs []string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(project.MemberIDs))
	for _, id := range project.MemberIDs {
		existing[id] = true
	}

	for _, memberID := range memberIDs {
		if existing[memberID] {
			continue
		}
		if _, err := s.users.GetByID(ctx, memberID); err != nil {
			return nil, err
		}
		project.MemberIDs = append(project.MemberIDs, memberID)
		existing[memberID] = true
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// RemoveMemberFromProject refuses to remove a member who still has an
// in-progress task inside the project.
func (s *ProjectService) RemoveMemberFromProject(ctx context.Context, projectID, memberID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	busy, err := s.tasks.HasActiveForAssignee(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if busy {
		return apperrors.NewValidation("cannot remove member assigned to an in-progress task")
	}

	found := false
	members := project.MemberIDs[:0]
	for _, id := range project.MemberIDs {
		if id == memberID {
			found = true
			continue
		}
		members = append(members, id)
	}
	if !found {
		return apperrors.ErrUserNotFound
	}
	project.MemberIDs = members

	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}
	return nil
}

// GetProjectMembers resolves the member set against the users collection.
// Deleted users are skipped rather than failing the whole listing.
func (s *ProjectService) GetProjectMembers(ctx context.Context, projectID string) ([]models.User, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	members := []models.User{}
	for _, memberID := range project.MemberIDs {
		user, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			logging.Logger.Warnf("Event ID: MEMBER_RESOLVE_FAILED, Description: Skipping member %s of project %s: %v", memberID, projectID, err)
			continue
		}
		members = append(members, *user)
	}
	return members, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects.GetAll(ctx)
}

func (s *ProjectService) GetProjectsByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error) {
	return s.projects.GetByStatus(ctx, status)
}

func (s *ProjectService) logActivity(ctx context.Context, activityType models.ActivityType, actorID, projectID, details string) {
	actorName := "A team member"
	if user, err := s.users.GetByID(ctx, actorID); err == nil && user.Name != "" {
		actorName = user.Name
	}
	activity := &models.Activity{
		ActivityType: activityType,
		UserID:       actorID,
		UserName:     actorName,
		ProjectID:    projectID,
		Details:      details,
		Timestamp:    time.Now(),
	}
	if err := s.activities.Insert(ctx, activity); err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_LOG_FAILED, Description: Failed to record activity %s: %v", activityType, err)
	}
}
