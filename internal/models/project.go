package models

import "time"

// Project groups tasks under a manager and a team. The manager is the user
// who created the project and is never reassigned; team holds user ids, each
// at most once.
type Project struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ProjectName string    `bson:"projectName" json:"project_name"`
	ClientName  string    `bson:"clientName" json:"client_name"`
	Description string    `bson:"description" json:"description"`
	ManagerID   string    `bson:"managerId" json:"manager_id"`
	Team        []string  `bson:"team" json:"team"`
	Tasks       []string  `bson:"tasks" json:"tasks"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}
