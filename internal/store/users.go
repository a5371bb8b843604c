package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/models"
)

type userStore struct {
	coll *mongo.Collection
}

// Create inserts a new user. Emails are stored lowercase so uniqueness is
// case-insensitive; the unique index is the final arbiter under concurrent
// registration.
func (s *userStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.Email = strings.ToLower(user.Email)
	user.Confirmed = false
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Confirm flips confirmed to true. Idempotent: confirming an already
// confirmed user is a no-op.
func (s *userStore) Confirm(ctx context.Context, id string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"confirmed": true, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateProfile changes name and email. The caller is expected to have
// checked the email against other users; the unique index still backstops a
// concurrent collision.
func (s *userStore) UpdateProfile(ctx context.Context, id, name, email string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"name":      name,
			"email":     strings.ToLower(email),
			"updatedAt": time.Now().UTC(),
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *userStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
