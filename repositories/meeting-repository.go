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

type MeetingRepository struct {
	meetings *mongo.Collection
}

func NewMeetingRepository(meetings *mongo.Collection) *MeetingRepository {
	return &MeetingRepository{meetings: meetings}
}

func (r *MeetingRepository) GetByID(ctx context.Context, meetingID string) (*models.Meeting, error) {
	objectID, err := primitive.ObjectIDFromHex(meetingID)
	if err != nil {
		return nil, apperrors.ErrMeetingNotFound
	}

	var meeting models.Meeting
	err = r.meetings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&meeting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to fetch meeting: %v", err)
	}
	return &meeting, nil
}

func (r *MeetingRepository) Insert(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID.IsZero() {
		meeting.ID = primitive.NewObjectID()
	}
	result, err := r.meetings.InsertOne(ctx, meeting)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %v", err)
	}
	meeting.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *models.Meeting) error {
	update := bson.M{
		"$set": bson.M{
			"title":        meeting.Title,
			"description":  meeting.Description,
			"startTime":    meeting.StartTime,
			"endTime":      meeting.EndTime,
			"meetingLink":  meeting.MeetingLink,
			"participants": meeting.Participants,
			"updatedAt":    time.Now(),
		},
	}
	result, err := r.meetings.UpdateOne(ctx, bson.M{"_id": meeting.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, meetingID string) error {
	objectID, err := primitive.ObjectIDFromHex(meetingID)
	if err != nil {
		return apperrors.ErrMeetingNotFound
	}

	result, err := r.meetings.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) GetAll(ctx context.Context) ([]models.Meeting, error) {
	return r.find(ctx, bson.M{})
}

func (r *MeetingRepository) GetByParticipant(ctx context.Context, userID string) ([]models.Meeting, error) {
	return r.find(ctx, bson.M{"participants": userID})
}

func (r *MeetingRepository) find(ctx context.Context, filter bson.M) ([]models.Meeting, error) {
	opts := options.Find().SetSort(bson.M{"startTime": 1})
	cursor, err := r.meetings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meetings: %v", err)
	}
	defer cursor.Close(ctx)

	var meetings []models.Meeting
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %v", err)
	}
	return meetings, nil
}
