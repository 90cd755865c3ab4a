package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"companysite/internal/config"
	"companysite/internal/database"
	"companysite/internal/logging"
	"companysite/internal/migrations"
	"companysite/internal/server"
	"companysite/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal(err)
	}
	// pages touching a missing table fail with the data-unavailable message
	if err := migrations.Run(ctx, db, logger); err != nil {
		logger.Error(ctx, "schema bootstrap failed", "error", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	r, err := server.NewRouter(server.Options{
		Config:   cfg,
		DB:       db,
		Store:    store,
		Settings: config.NewEnvProvider(cfg.EnvFile),
		Log:      logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := server.Serve(ctx, ":"+cfg.Port, r, logger); err != nil {
		log.Fatal(err)
	}
	logger.Info(context.Background(), "stopped")
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.UploadBackend == "s3" {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			PublicURL:    cfg.S3.PublicURL,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	}
	return storage.NewLocalStore(cfg.StaticDir+"/uploads", storage.StaticURLBase)
}
