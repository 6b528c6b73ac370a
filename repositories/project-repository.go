package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

type ProjectRepository struct {
	client   *mongo.Client
	projects *mongo.Collection
	tasks    *mongo.Collection
}

func NewProjectRepository(client *mongo.Client, projects, tasks *mongo.Collection) *ProjectRepository {
	return &ProjectRepository{client: client, projects: projects, tasks: tasks}
}

// EnsureIndexes creates the unique index on the project name.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.projects.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create unique index on project name: %v", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}

	var project models.Project
	err = r.projects.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %v", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	project.Version = 1

	result, err := r.projects.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update persists the project's mutable metadata with a compare-and-set on
// the record version. Progress is written separately by SetProgress.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	filter := bson.M{"_id": project.ID, "version": project.Version}
	update := bson.M{
		"$set": bson.M{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"startDate":   project.StartDate,
			"endDate":     project.EndDate,
			"managerId":   project.ManagerID,
			"memberIds":   project.MemberIDs,
			"updatedAt":   time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.projects.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update project: %v", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := r.projects.CountDocuments(ctx, bson.M{"_id": project.ID})
		if countErr == nil && count == 0 {
			return apperrors.ErrProjectNotFound
		}
		return apperrors.ErrConflict
	}

	project.Version++
	return nil
}

// SetProgress overwrites the derived progress field unconditionally.
func (r *ProjectRepository) SetProgress(ctx context.Context, projectID string, progress int) error {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return apperrors.ErrProjectNotFound
	}

	update := bson.M{
		"$set": bson.M{"progress": progress, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.projects.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update project progress: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// DeleteWithTasks removes the project and every task referencing it inside a
// single transaction, so a failure leaves both collections untouched.
func (r *ProjectRepository) DeleteWithTasks(ctx context.Context, projectID string) error {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return apperrors.ErrProjectNotFound
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: failed to start session: %v", apperrors.ErrPartialFailure, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.projects.DeleteOne(sc, bson.M{"_id": objectID})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, apperrors.ErrProjectNotFound
		}
		if _, err := r.tasks.DeleteMany(sc, bson.M{"projectId": projectID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPartialFailure, err)
	}
	return nil
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProjectRepository) GetByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.projects.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}
