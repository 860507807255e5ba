package app

import (
	"context"
	"time"

	"discussx/internal/config"
	"discussx/internal/database"
	"discussx/internal/logger"
	"discussx/internal/repository"
	"discussx/internal/service"
	"discussx/internal/storage"
)

// App connects the database and object storage and wires the repositories
// and services on top of them. MinIO is optional: without it avatar uploads
// answer 503 and everything else works.
func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	repo := repository.NewRepository(db.DB)

	avatars := connectStorage(cfg)
	if avatars == nil {
		return db, repo, service.NewService(repo, cfg, nil)
	}

	return db, repo, service.NewService(repo, cfg, avatars)
}

func connectStorage(cfg *config.Config) *storage.MinIOClient {
	if !cfg.MinIO.Enabled {
		logger.Info("MinIO disabled, avatar uploads are unavailable")
		return nil
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logger.Warningf("failed to initialize MinIO, avatar uploads are unavailable: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := minioClient.EnsureBucket(ctx); err != nil {
		logger.Warningf("MinIO bucket %s is not usable, avatar uploads are unavailable: %v", cfg.MinIO.BucketName, err)
		return nil
	}

	logger.Infof("MinIO connected: %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.BucketName)
	return minioClient
}
