package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/truongtn-dev/project-management/models"
)

type ActivityRepository struct {
	activities *mongo.Collection
}

func NewActivityRepository(activities *mongo.Collection) *ActivityRepository {
	return &ActivityRepository{activities: activities}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	if _, err := r.activities.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to log activity: %v", err)
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := r.activities.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}
