package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

type Project struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Status      ProjectStatus      `json:"status" bson:"status"`
	StartDate   time.Time          `json:"startDate" bson:"startDate"`
	EndDate     time.Time          `json:"endDate" bson:"endDate"`
	// Progress is derived from the project's tasks and overwritten on every
	// recompute; client-supplied values are ignored once tasks exist.
	Progress  int       `json:"progress" bson:"progress"`
	ManagerID string    `json:"managerId" bson:"managerId"`
	MemberIDs []string  `json:"memberIds" bson:"memberIds"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
	Version   int64     `json:"-" bson:"version"`
}
