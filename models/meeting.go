package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Meeting struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	StartTime     time.Time          `json:"startTime" bson:"startTime"`
	EndTime       time.Time          `json:"endTime" bson:"endTime"`
	MeetingLink   string             `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	Participants  []string           `json:"participants" bson:"participants"`
	CreatedBy     string             `json:"createdBy" bson:"createdBy"`
	CreatedByName string             `json:"createdByName" bson:"createdByName"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
