package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityCreateProject ActivityType = "CreateProject"
	ActivityDeleteProject ActivityType = "DeleteProject"
	ActivityCreateTask    ActivityType = "CreateTask"
	ActivityDeleteTask    ActivityType = "DeleteTask"
	ActivityStartTask     ActivityType = "StartTask"
	ActivitySubmitReview  ActivityType = "SubmitReview"
	ActivityApproveTask   ActivityType = "ApproveTask"
	ActivityRejectTask    ActivityType = "RejectTask"
	ActivityAddMember     ActivityType = "AddMember"
	ActivityRemoveMember  ActivityType = "RemoveMember"
)

type Activity struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActivityType ActivityType       `json:"activityType" bson:"activityType"`
	UserID       string             `json:"userId" bson:"userId"`
	UserName     string             `json:"userName" bson:"userName"`
	ProjectID    string             `json:"projectId,omitempty" bson:"projectId,omitempty"`
	TaskID       string             `json:"taskId,omitempty" bson:"taskId,omitempty"`
	Details      string             `json:"details" bson:"details"`
	Timestamp    time.Time          `json:"timestamp" bson:"timestamp"`
}
