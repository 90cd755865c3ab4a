package main

import (
	"context"
	"flag"
	"log"
	"time"

	"companysite/internal/config"
	"companysite/internal/database"
	"companysite/internal/domain/auth"
	"companysite/internal/logging"
	"companysite/internal/migrations"
)

func main() {
	days := flag.Int("days", 180, "keep sign-in activity for this many days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := migrations.Run(ctx, db, logger); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	svc := auth.NewService(auth.NewUserRepository(db), auth.NewLogRepository(db), config.NewEnvProvider(cfg.EnvFile), logger)
	n, err := svc.PruneActivity(ctx, time.Duration(*days)*24*time.Hour, time.Now().UTC())
	if err != nil {
		log.Fatalf("cleanup auth_logs failed: %v", err)
	}
	log.Printf("auth cleanup completed: auth_logs=%d", n)
}
