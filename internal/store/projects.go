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

type projectStore struct {
	coll *mongo.Collection
}

func (s *projectStore) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.ID = primitive.NewObjectID().Hex()
	if project.Team == nil {
		project.Team = []string{}
	}
	if project.Tasks == nil {
		project.Tasks = []string{}
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *projectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListForUser returns every project the user manages or is on the team of.
func (s *projectStore) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	cursor, err := s.coll.Find(ctx, bson.M{
		"$or": []bson.M{
			{"managerId": userID},
			{"team": userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

func (s *projectStore) Update(ctx context.Context, id, projectName, clientName, description string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"projectName": projectName,
			"clientName":  clientName,
			"description": description,
			"updatedAt":   time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddTeamMember appends userID to the team if absent, as one atomic
// $addToSet against the document.
func (s *projectStore) AddTeamMember(ctx context.Context, projectID, userID string) error {
	res, err := s.coll.UpdateByID(ctx, projectID, bson.M{
		"$addToSet": bson.M{"team": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *projectStore) RemoveTeamMember(ctx context.Context, projectID, userID string) error {
	res, err := s.coll.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"team": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *projectStore) AppendTask(ctx context.Context, projectID, taskID string) error {
	res, err := s.coll.UpdateByID(ctx, projectID, bson.M{
		"$push": bson.M{"tasks": taskID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to append task: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *projectStore) RemoveTask(ctx context.Context, projectID, taskID string) error {
	res, err := s.coll.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"tasks": taskID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
