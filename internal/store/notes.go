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

type noteStore struct {
	coll *mongo.Collection
}

func (s *noteStore) Create(ctx context.Context, note *models.Note) error {
	note.ID = primitive.NewObjectID().Hex()
	note.CreatedAt = time.Now().UTC()

	if _, err := s.coll.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *noteStore) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (s *noteStore) ListByTask(ctx context.Context, taskID string) ([]models.Note, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := []models.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (s *noteStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *noteStore) DeleteByTask(ctx context.Context, taskID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"taskId": taskID}); err != nil {
		return fmt.Errorf("failed to delete task notes: %w", err)
	}
	return nil
}

func (s *noteStore) DeleteByTasks(ctx context.Context, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"taskId": bson.M{"$in": taskIDs}}); err != nil {
		return fmt.Errorf("failed to delete notes for tasks: %w", err)
	}
	return nil
}
