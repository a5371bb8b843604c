package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/models"
)

type taskStore struct {
	coll *mongo.Collection
}

func (s *taskStore) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID().Hex()
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.CompletedBy == nil {
		task.CompletedBy = []models.StatusChange{}
	}
	if task.Notes == nil {
		task.Notes = []string{}
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *taskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (s *taskStore) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskStore) Update(ctx context.Context, id, name, description string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"name":        name,
			"description": description,
			"updatedAt":   time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *taskStore) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"projectId": projectID}); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return nil
}

// AppendStatusChange sets the new status and records who changed it, in one
// atomic update so the log order matches the status writes.
func (s *taskStore) AppendStatusChange(ctx context.Context, id, userID string, status models.TaskStatus) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
		"$push": bson.M{"completedBy": models.StatusChange{
			UserID: userID,
			Status: status,
			At:     time.Now().UTC(),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *taskStore) AppendNote(ctx context.Context, taskID, noteID string) error {
	res, err := s.coll.UpdateByID(ctx, taskID, bson.M{
		"$push": bson.M{"notes": noteID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *taskStore) RemoveNote(ctx context.Context, taskID, noteID string) error {
	res, err := s.coll.UpdateByID(ctx, taskID, bson.M{
		"$pull": bson.M{"notes": noteID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to remove note: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
