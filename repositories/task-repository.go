package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

type TaskRepository struct {
	tasks *mongo.Collection
}

func NewTaskRepository(tasks *mongo.Collection) *TaskRepository {
	return &TaskRepository{tasks: tasks}
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, apperrors.ErrTaskNotFound
	}

	var task models.Task
	err = r.tasks.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}
	return &task, nil
}

func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.Version = 1

	result, err := r.tasks.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update persists all mutable task fields with a compare-and-set on the
// record version, so two concurrent writers cannot both commit.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	filter := bson.M{"_id": task.ID, "version": task.Version}
	update := bson.M{
		"$set": bson.M{
			"name":         task.Name,
			"description":  task.Description,
			"status":       task.Status,
			"priority":     task.Priority,
			"assigneeId":   task.AssigneeID,
			"assigneeName": task.AssigneeName,
			"startDate":    task.StartDate,
			"dueDate":      task.DueDate,
			"progress":     task.Progress,
			"reviewLink":   task.ReviewLink,
			"reviewNotes":  task.ReviewNotes,
			"updatedAt":    time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.tasks.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := r.tasks.CountDocuments(ctx, bson.M{"_id": task.ID})
		if countErr == nil && count == 0 {
			return apperrors.ErrTaskNotFound
		}
		return apperrors.ErrConflict
	}

	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return apperrors.ErrTaskNotFound
	}

	result, err := r.tasks.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *TaskRepository) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *TaskRepository) GetByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return r.find(ctx, bson.M{"status": status}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *TaskRepository) GetByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"assigneeId": userID}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *TaskRepository) GetHighPriority(ctx context.Context, limit int64) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.M{"dueDate": 1}).SetLimit(limit)
	return r.find(ctx, bson.M{"priority": models.PriorityHigh}, opts)
}

// HasActiveForAssignee reports whether the member still has an in-progress
// task inside the project. Used to guard member removal.
func (r *TaskRepository) HasActiveForAssignee(ctx context.Context, projectID, userID string) (bool, error) {
	filter := bson.M{
		"projectId":  projectID,
		"assigneeId": userID,
		"status":     models.StatusInProgress,
	}
	count, err := r.tasks.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check task assignments: %v", err)
	}
	return count > 0, nil
}

// RefreshAssigneeName re-syncs the denormalized display name on every task
// assigned to the user.
func (r *TaskRepository) RefreshAssigneeName(ctx context.Context, userID, name string) error {
	update := bson.M{
		"$set": bson.M{"assigneeName": name, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	}
	_, err := r.tasks.UpdateMany(ctx, bson.M{"assigneeId": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to refresh assignee name: %v", err)
	}
	return nil
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Task, error) {
	cursor, err := r.tasks.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}
