// Package status reports liveness and aggregate counts of the backing
// stores. Both endpoints are public and unauthenticated.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/auth"
	"github.com/filedepot-io/filedepot/internal/files"
)

// pingTimeout bounds each liveness probe so a hung store can't stall the
// status endpoint.
const pingTimeout = 2 * time.Second

// Health is the liveness report for both backing stores.
type Health struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats holds aggregate counts of the persistent collections.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Service probes the shared store connections and counts collections.
type Service struct {
	mongo *mongo.Client
	redis *redis.Client
	users auth.UserRepository
	files files.FileRepository
}

// NewService creates a status service over the shared store handles.
func NewService(mc *mongo.Client, rdb *redis.Client, users auth.UserRepository, fileRepo files.FileRepository) *Service {
	return &Service{
		mongo: mc,
		redis: rdb,
		users: users,
		files: fileRepo,
	}
}

// Health pings both stores and reports their connectivity. It never fails:
// an unreachable store is reported as false, not as an error.
func (s *Service) Health(ctx context.Context) Health {
	return Health{
		Redis: s.redisAlive(ctx),
		DB:    s.mongoAlive(ctx),
	}
}

// Stats counts the users and files collections. Store errors surface as
// unavailable.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, apperror.NewUnavailable(fmt.Errorf("counting users: %w", err))
	}

	fileCount, err := s.files.Count(ctx)
	if err != nil {
		return Stats{}, apperror.NewUnavailable(fmt.Errorf("counting files: %w", err))
	}

	return Stats{Users: userCount, Files: fileCount}, nil
}

func (s *Service) mongoAlive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.mongo.Ping(ctx, readpref.Primary()) == nil
}

func (s *Service) redisAlive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.redis.Ping(ctx).Err() == nil
}
