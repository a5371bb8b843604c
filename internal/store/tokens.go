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
	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/models"
)

type tokenStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

// Create issues a fresh code for userID. Outstanding tokens for the same user
// are left untouched; several may be valid at once.
func (s *tokenStore) Create(ctx context.Context, userID string) (*models.Token, error) {
	code, err := auth.GenerateCode()
	if err != nil {
		return nil, err
	}

	token := &models.Token{
		ID:        primitive.NewObjectID().Hex(),
		Token:     code,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}

// liveFilter matches a non-expired token with the given code. The createdAt
// guard makes an expired-but-unpurged document invisible even before the TTL
// monitor removes it.
func (s *tokenStore) liveFilter(code string) bson.M {
	return bson.M{
		"token":     code,
		"createdAt": bson.M{"$gt": time.Now().UTC().Add(-s.ttl)},
	}
}

// Redeem consumes a token in a single find-and-delete, so two concurrent
// redemptions of the same code cannot both succeed.
func (s *tokenStore) Redeem(ctx context.Context, code string) (*models.Token, error) {
	var token models.Token
	err := s.coll.FindOneAndDelete(ctx, s.liveFilter(code)).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to redeem token: %w", err)
	}
	return &token, nil
}

// Peek checks that a code is currently redeemable without consuming it, for
// the read-only validation endpoint.
func (s *tokenStore) Peek(ctx context.Context, code string) (*models.Token, error) {
	var token models.Token
	err := s.coll.FindOne(ctx, s.liveFilter(code)).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return &token, nil
}

// DeleteExpired removes tokens past their TTL. The TTL index does this on its
// own schedule; the periodic sweep just keeps the collection tidy between
// monitor passes.
func (s *tokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"createdAt": bson.M{"$lte": time.Now().UTC().Add(-s.ttl)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return res.DeletedCount, nil
}
