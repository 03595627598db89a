package app

import (
	"context"

	"github.com/filedepot-io/filedepot/internal/auth"
	"github.com/filedepot-io/filedepot/internal/files"
	"github.com/filedepot-io/filedepot/internal/files/blob"
	"github.com/filedepot-io/filedepot/internal/status"
)

// RegisterRoutes builds every service with its dependencies and registers
// all application routes. This is the single place where the areas are
// wired together.
func (a *App) RegisterRoutes(ctx context.Context) error {
	// Repositories over the shared database handle.
	userRepo := auth.NewUserRepository(a.DB)
	fileRepo := files.NewFileRepository(a.DB)

	// Blob store for raw content (disk or S3, per config).
	blobStore, err := blob.NewStore(ctx, a.Config.Blob)
	if err != nil {
		return err
	}

	// Services.
	authService := auth.NewAuthService(userRepo, a.Redis, a.Config.Session.TTL)
	fileService := files.NewFileService(fileRepo, blobStore, a.Config.Blob.MaxUploadSize)
	statusService := status.NewService(a.Mongo, a.Redis, userRepo, fileRepo)

	// Routes.
	status.RegisterRoutes(a.Echo, status.NewHandler(statusService))
	auth.RegisterRoutes(a.Echo, auth.NewHandler(authService), authService)
	files.RegisterRoutes(a.Echo, files.NewHandler(fileService), authService)

	return nil
}
