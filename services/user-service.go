package services

import (
	"context"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

type UserService struct {
	users UserStore
	tasks TaskStore
}

func NewUserService(users UserStore, tasks TaskStore) *UserService {
	return &UserService{users: users, tasks: tasks}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) GetUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	return s.users.GetByRole(ctx, role)
}

// RenameUser updates the user's display name and re-syncs the denormalized
// assignee name cached on their tasks.
func (s *UserService) RenameUser(ctx context.Context, userID, name string) error {
	if name == "" {
		return apperrors.NewValidation("name is required")
	}
	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		return err
	}
	return s.tasks.RefreshAssigneeName(ctx, userID, name)
}
