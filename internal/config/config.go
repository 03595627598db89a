// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Blob store backends.
const (
	BlobBackendDisk = "disk"
	BlobBackendS3   = "s3"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `validate:"required"`

	// Port is the HTTP listen port (default: 5000).
	Port int `validate:"gte=1,lte=65535"`

	// Database holds MongoDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Session holds session token settings.
	Session SessionConfig

	// Blob holds raw-content storage settings.
	Blob BlobConfig
}

// DatabaseConfig holds MongoDB connection parameters. Host, port, and
// database name are read from separate env vars so container orchestrators
// can manage each independently.
type DatabaseConfig struct {
	// Host is the MongoDB host (default: "localhost").
	Host string `validate:"required"`

	// Port is the MongoDB port (default: 27017).
	Port int `validate:"gte=1,lte=65535"`

	// Name is the database name (default: "files_manager").
	Name string `validate:"required"`
}

// URI returns the mongodb:// connection string for the configured host/port.
func (d DatabaseConfig) URI() string {
	return fmt.Sprintf("mongodb://%s:%d", d.Host, d.Port)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string `validate:"required,uri"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	// TTL is how long a session token lives after creation (default: 24h).
	TTL time.Duration `validate:"gt=0"`
}

// BlobConfig holds raw-content storage settings. The disk backend writes
// uploaded bytes under FolderPath; the s3 backend writes them to an
// S3-compatible bucket.
type BlobConfig struct {
	// Backend selects the blob store implementation: "disk" or "s3".
	Backend string `validate:"oneof=disk s3"`

	// FolderPath is the root directory for the disk backend.
	FolderPath string `validate:"required_if=Backend disk"`

	// Bucket is the S3 bucket name (s3 backend only).
	Bucket string `validate:"required_if=Backend s3"`

	// Region is the S3 region (s3 backend only).
	Region string

	// Endpoint overrides the S3 endpoint for MinIO and other
	// S3-compatible stores. Empty means AWS.
	Endpoint string

	// AccessKey and SecretKey are static S3 credentials. If both are
	// empty the default AWS credential chain is used.
	AccessKey string
	SecretKey string

	// MaxUploadSize is the maximum decoded upload size in bytes.
	MaxUploadSize int64 `validate:"gt=0"`
}

// Load reads configuration from environment variables with sensible defaults
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnvInt("PORT", 5000),

		Database: DatabaseConfig{
			Host: getEnv("DB_HOST", "localhost"),
			Port: getEnvInt("DB_PORT", 27017),
			Name: getEnv("DB_DATABASE", "files_manager"),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Session: SessionConfig{
			TTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
		},

		Blob: BlobConfig{
			Backend:       getEnv("BLOB_BACKEND", BlobBackendDisk),
			FolderPath:    getEnv("FOLDER_PATH", "/tmp/files_manager"),
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvInt64 reads an int64 env var or returns the default.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "24h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
