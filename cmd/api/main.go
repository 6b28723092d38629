package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"launchsignal-backend/pkg/logger"
)

func main() {
	// Production reads the real environment; .env is a local convenience.
	envErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env, "api")
	if envErr != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	// Discounts are numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true

	log.Info().Str("environment", env).Msg("Starting LaunchSignal API")
	Serve()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
