package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/truongtn-dev/project-management/models"
)

func TestGetDashboardStats(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewStatsService(env.projects, env.tasks)

	env.projects.put(models.Project{ID: primitive.NewObjectID(), Name: "Shipped", Status: models.ProjectCompleted})
	env.newTask(models.StatusNotStarted, 0)
	env.newTask(models.StatusInProgress, ProgressStarted)
	env.newTask(models.StatusInProgress, ProgressStarted)
	env.newTask(models.StatusDone, ProgressDone)

	stats, err := svc.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalProjects != 2 {
		t.Errorf("TotalProjects = %d, want 2", stats.TotalProjects)
	}
	if stats.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", stats.TotalTasks)
	}
	if stats.ActiveTasks != 2 {
		t.Errorf("ActiveTasks = %d, want 2", stats.ActiveTasks)
	}
	if stats.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", stats.CompletedTasks)
	}
	if stats.CompletedProjects != 1 {
		t.Errorf("CompletedProjects = %d, want 1", stats.CompletedProjects)
	}
	if stats.CompletionRate != 25 {
		t.Errorf("CompletionRate = %d, want 25", stats.CompletionRate)
	}
}

func TestGetDashboardStatsEmpty(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewStatsService(env.projects, env.tasks)

	stats, err := svc.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("CompletionRate with no tasks = %d, want 0", stats.CompletionRate)
	}
}

func TestGetTaskDistribution(t *testing.T) {
	env := newWorkflowEnv(t)
	svc := NewStatsService(env.projects, env.tasks)

	high := env.newTask(models.StatusDone, ProgressDone)
	high.Priority = models.PriorityHigh
	env.tasks.put(high)
	env.newTask(models.StatusInProgress, ProgressStarted)

	distribution, err := svc.GetTaskDistribution(context.Background())
	if err != nil {
		t.Fatalf("GetTaskDistribution failed: %v", err)
	}
	if distribution.ByStatus[models.StatusDone] != 1 || distribution.ByStatus[models.StatusInProgress] != 1 {
		t.Errorf("unexpected status distribution %v", distribution.ByStatus)
	}
	if distribution.ByStatus[models.StatusNotStarted] != 0 {
		t.Errorf("zero buckets should be present, got %v", distribution.ByStatus)
	}
	if distribution.ByPriority[models.PriorityHigh] != 1 || distribution.ByPriority[models.PriorityMedium] != 1 {
		t.Errorf("unexpected priority distribution %v", distribution.ByPriority)
	}
}
