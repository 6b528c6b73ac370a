package services

import (
	"context"

	"github.com/truongtn-dev/project-management/models"
)

type ActivityService struct {
	activities ActivityStore
}

func NewActivityService(activities ActivityStore) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) GetRecent(ctx context.Context, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.activities.Recent(ctx, limit)
}
