package models

import "time"

// Note is a comment on a task, deletable only by its author.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Content   string    `bson:"content" json:"content"`
	CreatedBy string    `bson:"createdBy" json:"created_by"`
	TaskID    string    `bson:"taskId" json:"task_id"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
