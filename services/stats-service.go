package services

import (
	"context"
	"math"

	"github.com/truongtn-dev/project-management/models"
)

type StatsService struct {
	projects ProjectStore
	tasks    TaskStore
}

func NewStatsService(projects ProjectStore, tasks TaskStore) *StatsService {
	return &StatsService{projects: projects, tasks: tasks}
}

func (s *StatsService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	projects, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalProjects: len(projects),
		TotalTasks:    len(tasks),
	}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusInProgress:
			stats.ActiveTasks++
		case models.StatusDone:
			stats.CompletedTasks++
		}
	}
	for _, p := range projects {
		if p.Status == models.ProjectCompleted {
			stats.CompletedProjects++
		}
	}
	if len(tasks) > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedTasks) * 100 / float64(len(tasks))))
	}
	return stats, nil
}

func (s *StatsService) GetTaskDistribution(ctx context.Context) (*models.TaskDistribution, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	distribution := &models.TaskDistribution{
		ByStatus: map[models.TaskStatus]int{
			models.StatusNotStarted:    0,
			models.StatusInProgress:    0,
			models.StatusPendingReview: 0,
			models.StatusDone:          0,
		},
		ByPriority: map[models.TaskPriority]int{
			models.PriorityLow:    0,
			models.PriorityMedium: 0,
			models.PriorityHigh:   0,
		},
	}
	for _, t := range tasks {
		if _, ok := distribution.ByStatus[t.Status]; ok {
			distribution.ByStatus[t.Status]++
		}
		if _, ok := distribution.ByPriority[t.Priority]; ok {
			distribution.ByPriority[t.Priority]++
		}
	}
	return distribution, nil
}
