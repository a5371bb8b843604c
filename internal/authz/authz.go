// Package authz holds the authorization predicates. They are pure functions
// over entities the middleware pipeline has already resolved, so every
// mutating route re-validates its role against the exact resource it is
// about to touch.
package authz

import "github.com/taskly/backend/internal/models"

// IsManager reports whether user created (and therefore manages) project.
func IsManager(user *models.User, project *models.Project) bool {
	return user.ID == project.ManagerID
}

// IsMember reports whether user is the manager or on the team.
func IsMember(user *models.User, project *models.Project) bool {
	if IsManager(user, project) {
		return true
	}
	for _, id := range project.Team {
		if id == user.ID {
			return true
		}
	}
	return false
}

// CanViewProject gates read access to a project and everything under it.
func CanViewProject(user *models.User, project *models.Project) bool {
	return IsMember(user, project)
}

// CanMutateProject gates project updates/deletion, team changes and task
// identity changes. Only the manager qualifies.
func CanMutateProject(user *models.User, project *models.Project) bool {
	return IsManager(user, project)
}

// TaskBelongsToProject verifies the task's back-reference against the project
// it was reached through. A mismatch is a client error distinct from both
// not-found and forbidden.
func TaskBelongsToProject(task *models.Task, project *models.Project) bool {
	return task.ProjectID == project.ID
}

// CanDeleteNote gates note deletion on authorship, not project role.
func CanDeleteNote(user *models.User, note *models.Note) bool {
	return user.ID == note.CreatedBy
}
