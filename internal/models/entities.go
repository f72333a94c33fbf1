package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the read-only user reference resolved for report breakdowns
type User struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
}

// Task represents a one-time or recurring task document
type Task struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TaskType     string              `bson:"taskType" json:"taskType"`
	Status       string              `bson:"status" json:"status"`
	AssignedToID *primitive.ObjectID `bson:"assignedTo,omitempty" json:"-"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`

	// AssignedTo is filled by the store after resolving AssignedToID
	AssignedTo *User `bson:"-" json:"assignedTo,omitempty"`
}

// WorkflowStep is one step of an FMS project
type WorkflowStep struct {
	StepNo int                 `bson:"stepNo" json:"stepNo"`
	Status string              `bson:"status" json:"status"`
	WhoID  *primitive.ObjectID `bson:"who,omitempty" json:"-"`

	Who *User `bson:"-" json:"who,omitempty"`
}

// WorkflowInstance represents an FMS project with its ordered steps
type WorkflowInstance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Steps     []WorkflowStep     `bson:"steps" json:"steps"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Checklist represents a checklist submission
type Checklist struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Status       string              `bson:"status" json:"status"`
	AssignedToID *primitive.ObjectID `bson:"assignedTo,omitempty" json:"-"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`

	AssignedTo *User `bson:"-" json:"assignedTo,omitempty"`
}

// HelpTicket represents a support ticket raised by one user and handled by another
type HelpTicket struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Status       string              `bson:"status" json:"status"` // free text, compared case-insensitively
	AssignedToID *primitive.ObjectID `bson:"assignedTo,omitempty" json:"-"`
	RaisedByID   *primitive.ObjectID `bson:"raisedBy,omitempty" json:"-"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`

	AssignedTo *User `bson:"-" json:"assignedTo,omitempty"`
	RaisedBy   *User `bson:"-" json:"raisedBy,omitempty"`
}
