package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/config"
	"launchsignal-backend/internal/infrastructure/database"
	"launchsignal-backend/pkg/logger"
)

// migrate creates the schema through lib/pq so it can run before the API.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.App.Environment, "migrate")

	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load database config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.OpenSQL(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.CreateSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Str("database", dbConfig.DBName).Msg("Schema is up to date")
}
