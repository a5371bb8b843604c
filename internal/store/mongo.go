package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a Mongo client, verifies the connection and returns the
// named database handle.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes the stores rely on: the unique email
// index backing DuplicateEmail, the TTL index expiring ephemeral tokens, and
// the secondary lookups used by list queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database, tokenTTL time.Duration) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection("tokens").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(tokenTTL.Seconds())),
		},
		{Keys: bson.D{{Key: "token", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tokens indexes: %w", err)
	}

	_, err = db.Collection("projects").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "managerId", Value: 1}}},
		{Keys: bson.D{{Key: "team", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create projects indexes: %w", err)
	}

	_, err = db.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "projectId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}

	_, err = db.Collection("notes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notes index: %w", err)
	}

	return nil
}
