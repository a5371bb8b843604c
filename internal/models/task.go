package models

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending     TaskStatus = "pending"
	StatusOnHold      TaskStatus = "onHold"
	StatusInProgress  TaskStatus = "inProgress"
	StatusUnderReview TaskStatus = "underReview"
	StatusCompleted   TaskStatus = "completed"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusOnHold, StatusInProgress, StatusUnderReview, StatusCompleted:
		return true
	}
	return false
}

// StatusChange records who moved a task to which status, in order.
type StatusChange struct {
	UserID string     `bson:"userId" json:"user_id"`
	Status TaskStatus `bson:"status" json:"status"`
	At     time.Time  `bson:"at" json:"at"`
}

// Task belongs to exactly one project; ProjectID is the back-reference
// checked on every project-scoped task operation.
type Task struct {
	ID          string         `bson:"_id,omitempty" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description" json:"description"`
	ProjectID   string         `bson:"projectId" json:"project_id"`
	Status      TaskStatus     `bson:"status" json:"status"`
	CompletedBy []StatusChange `bson:"completedBy" json:"completed_by"`
	Notes       []string       `bson:"notes" json:"notes"`
	CreatedAt   time.Time      `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updated_at"`
}
