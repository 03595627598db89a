// Package database provides connection setup for MongoDB and Redis.
// Both connections are created once at startup and shared across the
// application via dependency injection. This package owns the connection
// lifecycle (open, ping, ensure indexes, close).
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/filedepot-io/filedepot/internal/config"
)

// Collection names owned by this application.
const (
	UsersCollection = "users"
	FilesCollection = "files"
)

// NewMongo creates a new MongoDB client and returns the handle to the
// configured database. It pings the server to verify connectivity before
// returning, retrying with backoff in case the database container is still
// starting up. It also ensures the unique index on users.email so duplicate
// registrations are rejected at the store level.
func NewMongo(cfg config.DatabaseConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	const maxRetries = 10
	backoff := 1 * time.Second
	var pingErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr = client.Ping(pingCtx, readpref.Primary())
		pingCancel()

		if pingErr == nil {
			db := client.Database(cfg.Name)
			if err := ensureIndexes(db); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, nil, err
			}
			return client, db, nil
		}

		if attempt == maxRetries {
			break
		}

		slog.Warn("mongodb not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxRetries),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, 30*time.Second)
	}

	_ = client.Disconnect(context.Background())
	return nil, nil, fmt.Errorf("pinging mongodb after %d attempts: %w", maxRetries, pingErr)
}

// ensureIndexes creates the indexes this application relies on. Index
// creation is idempotent, so running it on every startup is safe.
func ensureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users.email index: %w", err)
	}

	_, err = db.Collection(FilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating files.userId index: %w", err)
	}

	return nil
}
