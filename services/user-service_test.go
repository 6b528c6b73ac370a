package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

func TestGetUsersByRole(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewUserService(env.users, env.tasks)

	managers, err := svc.GetUsersByRole(context.Background(), models.RoleManager)
	if err != nil {
		t.Fatalf("GetUsersByRole failed: %v", err)
	}
	if len(managers) != 1 || managers[0].ID != env.manager.ID {
		t.Errorf("expected only the manager, got %+v", managers)
	}
}

func TestRenameUserRefreshesTaskNames(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewUserService(env.users, env.tasks)
	ctx := context.Background()

	task := env.newTask(models.StatusInProgress, ProgressStarted)

	if err := svc.RenameUser(ctx, env.member.ID.Hex(), "Denisa"); err != nil {
		t.Fatalf("RenameUser failed: %v", err)
	}

	user, _ := env.users.GetByID(ctx, env.member.ID.Hex())
	if user.Name != "Denisa" {
		t.Errorf("user name not updated: %q", user.Name)
	}
	stored, _ := env.tasks.GetByID(ctx, task.ID.Hex())
	if stored.AssigneeName != "Denisa" {
		t.Errorf("cached assignee name not refreshed: %q", stored.AssigneeName)
	}
}

func TestRenameUserValidation(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewUserService(env.users, env.tasks)

	err := svc.RenameUser(context.Background(), env.member.ID.Hex(), "")
	if err == nil || apperrors.StatusCode(err) != 400 {
		t.Errorf("expected validation error for empty name, got %v", err)
	}

	err = svc.RenameUser(context.Background(), primitive.NewObjectID().Hex(), "Ghost")
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
