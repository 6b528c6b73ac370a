package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusNotStarted    TaskStatus = "not started"
	StatusInProgress    TaskStatus = "in progress"
	StatusPendingReview TaskStatus = "pending review"
	StatusDone          TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID   string             `json:"projectId" bson:"projectId"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Status      TaskStatus         `json:"status" bson:"status"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	AssigneeID  string             `json:"assigneeId" bson:"assigneeId"`
	// AssigneeName is a display cache kept in sync with the users collection;
	// AssigneeID is the source of truth for identity.
	AssigneeName string    `json:"assigneeName" bson:"assigneeName"`
	StartDate    time.Time `json:"startDate" bson:"startDate"`
	DueDate      time.Time `json:"dueDate" bson:"dueDate"`
	Progress     int       `json:"progress" bson:"progress"`
	ReviewLink   string    `json:"reviewLink,omitempty" bson:"reviewLink,omitempty"`
	ReviewNotes  string    `json:"reviewNotes,omitempty" bson:"reviewNotes,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	Version      int64     `json:"-" bson:"version"`
}
