package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so tests see pure defaults
// regardless of the host environment. t.Setenv registers the restore,
// then the variable is unset for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT",
		"DB_HOST", "DB_PORT", "DB_DATABASE",
		"REDIS_URL", "SESSION_TTL",
		"BLOB_BACKEND", "FOLDER_PATH", "MAX_UPLOAD_SIZE",
		"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 27017 {
		t.Errorf("Database = %s:%d, want localhost:27017", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.Name != "files_manager" {
		t.Errorf("Database.Name = %q, want files_manager", cfg.Database.Name)
	}
	if cfg.Redis.URL != "redis://localhost:6379" {
		t.Errorf("Redis.URL = %q", cfg.Redis.URL)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.Blob.Backend != BlobBackendDisk {
		t.Errorf("Blob.Backend = %q, want disk", cfg.Blob.Backend)
	}
	if cfg.Blob.FolderPath != "/tmp/files_manager" {
		t.Errorf("Blob.FolderPath = %q", cfg.Blob.FolderPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "mongo.internal")
	t.Setenv("DB_PORT", "27018")
	t.Setenv("DB_DATABASE", "depot")
	t.Setenv("SESSION_TTL", "1h30m")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if got := cfg.Database.URI(); got != "mongodb://mongo.internal:27018" {
		t.Errorf("Database.URI() = %q", got)
	}
	if cfg.Database.Name != "depot" {
		t.Errorf("Database.Name = %q", cfg.Database.Name)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Errorf("Session.TTL = %v", cfg.Session.TTL)
	}
	if cfg.Blob.MaxUploadSize != 1048576 {
		t.Errorf("Blob.MaxUploadSize = %d", cfg.Blob.MaxUploadSize)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOB_BACKEND", "ftp")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown blob backend")
	}
}

func TestLoadS3RequiresBucket(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOB_BACKEND", "s3")

	if _, err := Load(); err == nil {
		t.Error("expected an error when the s3 backend has no bucket")
	}
}

func TestMalformedNumbersFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SESSION_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want the default", cfg.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want the default", cfg.Session.TTL)
	}
}

func TestIsDevelopment(t *testing.T) {
	for env, want := range map[string]bool{
		"development": true,
		"dev":         true,
		"Development": true,
		"production":  false,
		"staging":     false,
	} {
		cfg := &Config{Env: env}
		if got := cfg.IsDevelopment(); got != want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", env, got, want)
		}
	}
}
