package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"essenza-backend/internal/config"
	"essenza-backend/internal/db"
	"essenza-backend/internal/importer"
	perfumerepo "essenza-backend/internal/repository/perfume"
)

func main() {
	filePath := flag.String("file", "", "path to the perfume catalog CSV")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if *filePath == "" {
		logger.Fatal("-file is required")
	}

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

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, perfumerepo.NewPostgres(dbpool, logger))
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import catalog: %v", err)
	}

	logger.Infof("imported %d perfumes", count)
}
