package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"essenza-backend/internal/config"
	"essenza-backend/internal/db"
	"essenza-backend/internal/migrate"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.ConnectWithRetry(ctx, cfg.DBConnString, 30*time.Second)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Info("migrations applied")
}
