// Package store persists the domain documents in MongoDB. Each entity is
// exposed behind a small interface so services can be tested against
// in-memory fakes. List mutations (team membership, task and note id lists)
// are single-document atomic updates; token redemption is an atomic
// find-and-delete.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskly/backend/internal/models"
)

// Users holds user records and enforces email uniqueness.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Confirm(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id, name, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Tokens holds ephemeral confirmation/reset codes. Redeem consumes; Peek does
// not. Both treat anything older than the TTL as absent.
type Tokens interface {
	Create(ctx context.Context, userID string) (*models.Token, error)
	Redeem(ctx context.Context, code string) (*models.Token, error)
	Peek(ctx context.Context, code string) (*models.Token, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// Projects holds the project documents and their task-id and team lists.
type Projects interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	ListForUser(ctx context.Context, userID string) ([]models.Project, error)
	Update(ctx context.Context, id, projectName, clientName, description string) error
	Delete(ctx context.Context, id string) error
	AddTeamMember(ctx context.Context, projectID, userID string) error
	RemoveTeamMember(ctx context.Context, projectID, userID string) error
	AppendTask(ctx context.Context, projectID, taskID string) error
	RemoveTask(ctx context.Context, projectID, taskID string) error
}

// Tasks holds the task documents and their note-id lists.
type Tasks interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)
	Update(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	AppendStatusChange(ctx context.Context, id, userID string, status models.TaskStatus) error
	AppendNote(ctx context.Context, taskID, noteID string) error
	RemoveNote(ctx context.Context, taskID, noteID string) error
}

// Notes holds the note documents.
type Notes interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListByTask(ctx context.Context, taskID string) ([]models.Note, error)
	Delete(ctx context.Context, id string) error
	DeleteByTask(ctx context.Context, taskID string) error
	DeleteByTasks(ctx context.Context, taskIDs []string) error
}

// Store bundles the Mongo-backed implementations.
type Store struct {
	Users    Users
	Tokens   Tokens
	Projects Projects
	Tasks    Tasks
	Notes    Notes
}

// New builds a Store over db. tokenTTL is the validity window for ephemeral
// tokens (the TTL index uses the same value).
func New(db *mongo.Database, tokenTTL time.Duration) *Store {
	return &Store{
		Users:    &userStore{coll: db.Collection("users")},
		Tokens:   &tokenStore{coll: db.Collection("tokens"), ttl: tokenTTL},
		Projects: &projectStore{coll: db.Collection("projects")},
		Tasks:    &taskStore{coll: db.Collection("tasks")},
		Notes:    &noteStore{coll: db.Collection("notes")},
	}
}
