package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

func newProjectService(env *workflowEnv) *ProjectService {
	return NewProjectService(env.projects, env.tasks, env.users, env.activities)
}

func TestCreateProject(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)

	project := &models.Project{
		Name:      "Mobile App",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 3, 0),
		Progress:  40, // client-supplied, must be ignored
	}
	created, err := svc.CreateProject(context.Background(), project, env.manager.ID.Hex())
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if created.Progress != 0 {
		t.Errorf("new project progress must be 0, got %d", created.Progress)
	}
	if created.Status != models.ProjectActive {
		t.Errorf("expected default status %q, got %q", models.ProjectActive, created.Status)
	}
	if created.ManagerID != env.manager.ID.Hex() {
		t.Errorf("manager not recorded: %q", created.ManagerID)
	}
	if len(env.activities.logged) != 1 || env.activities.logged[0].ActivityType != models.ActivityCreateProject {
		t.Errorf("expected a create-project activity, got %+v", env.activities.logged)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, &models.Project{}, env.manager.ID.Hex())
	if err == nil || apperrors.StatusCode(err) != 400 {
		t.Errorf("expected validation error for empty name, got %v", err)
	}

	backwards := &models.Project{
		Name:      "Backwards",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, -1),
	}
	_, err = svc.CreateProject(ctx, backwards, env.manager.ID.Hex())
	if err == nil || apperrors.StatusCode(err) != 400 {
		t.Errorf("expected validation error for end before start, got %v", err)
	}

	_, err = svc.CreateProject(ctx, &models.Project{Name: "Orphan"}, primitive.NewObjectID().Hex())
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown manager, got %v", err)
	}
}

func TestUpdateProjectIgnoresProgress(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)

	updated, err := svc.UpdateProject(context.Background(), env.project.ID.Hex(), &models.Project{
		Description: "Refreshed brief",
		Progress:    77,
	})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Progress != env.project.Progress {
		t.Errorf("progress must not be writable through update, got %d", updated.Progress)
	}
	if updated.Description != "Refreshed brief" {
		t.Errorf("description not updated: %q", updated.Description)
	}
}

func TestDeleteProjectAndTasks(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)
	ctx := context.Background()

	env.newTask(models.StatusInProgress, ProgressStarted)
	env.newTask(models.StatusDone, ProgressDone)

	other := models.Project{ID: primitive.NewObjectID(), Name: "Other", ManagerID: env.manager.ID.Hex()}
	env.projects.put(other)
	survivor := models.Task{
		ID:         primitive.NewObjectID(),
		ProjectID:  other.ID.Hex(),
		Name:       "Unrelated",
		Status:     models.StatusNotStarted,
		AssigneeID: env.member.ID.Hex(),
	}
	env.tasks.put(survivor)

	if err := svc.DeleteProjectAndTasks(ctx, env.project.ID.Hex(), env.manager.ID.Hex()); err != nil {
		t.Fatalf("DeleteProjectAndTasks failed: %v", err)
	}

	if _, err := env.projects.GetByID(ctx, env.project.ID.Hex()); !errors.Is(err, apperrors.ErrProjectNotFound) {
		t.Errorf("project should be gone, got %v", err)
	}
	remaining, _ := env.tasks.GetAll(ctx)
	if len(remaining) != 1 || remaining[0].ID != survivor.ID {
		t.Errorf("only the unrelated task should remain, got %+v", remaining)
	}
}

func TestDeleteProjectFailureLeavesEverything(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)
	ctx := context.Background()

	env.newTask(models.StatusInProgress, ProgressStarted)
	env.projects.failCascade = true

	err := svc.DeleteProjectAndTasks(ctx, env.project.ID.Hex(), env.manager.ID.Hex())
	if !errors.Is(err, apperrors.ErrPartialFailure) {
		t.Fatalf("expected ErrPartialFailure, got %v", err)
	}

	if _, err := env.projects.GetByID(ctx, env.project.ID.Hex()); err != nil {
		t.Errorf("project must survive a failed delete: %v", err)
	}
	tasks, _ := env.tasks.GetByProject(ctx, env.project.ID.Hex())
	if len(tasks) != 1 {
		t.Errorf("tasks must survive a failed delete, got %d", len(tasks))
	}
}

func TestAddMembersToProject(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)
	ctx := context.Background()

	newcomer := models.User{ID: primitive.NewObjectID(), Name: "Niko", Role: models.RoleMember}
	env.users.put(newcomer)

	// env.member is already in the project; adds must be idempotent.
	updated, err := svc.AddMembersToProject(ctx, env.project.ID.Hex(), []string{newcomer.ID.Hex(), env.member.ID.Hex()})
	if err != nil {
		t.Fatalf("AddMembersToProject failed: %v", err)
	}
	if len(updated.MemberIDs) != 2 {
		t.Errorf("expected 2 members, got %v", updated.MemberIDs)
	}

	_, err = svc.AddMembersToProject(ctx, env.project.ID.Hex(), []string{primitive.NewObjectID().Hex()})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown member, got %v", err)
	}
}

func TestRemoveMemberFromProject(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)
	ctx := context.Background()

	if err := svc.RemoveMemberFromProject(ctx, env.project.ID.Hex(), env.member.ID.Hex()); err != nil {
		t.Fatalf("RemoveMemberFromProject failed: %v", err)
	}
	updated, _ := env.projects.GetByID(ctx, env.project.ID.Hex())
	if len(updated.MemberIDs) != 0 {
		t.Errorf("member should be removed, got %v", updated.MemberIDs)
	}

	err := svc.RemoveMemberFromProject(ctx, env.project.ID.Hex(), env.member.ID.Hex())
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for non-member, got %v", err)
	}
}

func TestRemoveMemberWithActiveTask(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)

	env.newTask(models.StatusInProgress, ProgressStarted)

	err := svc.RemoveMemberFromProject(context.Background(), env.project.ID.Hex(), env.member.ID.Hex())
	if err == nil || apperrors.StatusCode(err) != 400 {
		t.Fatalf("expected validation error for busy member, got %v", err)
	}

	updated, _ := env.projects.GetByID(context.Background(), env.project.ID.Hex())
	if len(updated.MemberIDs) != 1 {
		t.Errorf("busy member must stay in the project, got %v", updated.MemberIDs)
	}
}

func TestGetProjectMembersSkipsDeletedUsers(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := newProjectService(env)

	project, _ := env.projects.GetByID(context.Background(), env.project.ID.Hex())
	project.MemberIDs = append(project.MemberIDs, primitive.NewObjectID().Hex())
	env.projects.put(*project)

	members, err := svc.GetProjectMembers(context.Background(), env.project.ID.Hex())
	if err != nil {
		t.Fatalf("GetProjectMembers failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != env.member.ID {
		t.Errorf("expected only the resolvable member, got %+v", members)
	}
}
