package main

import (
	"log"

	"quiz-builder/internal/config"
	"quiz-builder/internal/database"
	"quiz-builder/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewSQLXSQLiteDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, "file://migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}
