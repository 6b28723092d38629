package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/config"
)

// Config holds the worker-only settings derived from the shared config.
type Config struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	HealthAddr  string
	SMTP        config.SMTPConfig
}

func loadConfig(cfg *config.Config, redisOpt asynq.RedisClientOpt) *Config {
	wc := &Config{
		RedisOpt:    redisOpt,
		Concurrency: cfg.Worker.Concurrency,
		HealthAddr:  cfg.Worker.HealthAddr,
		SMTP:        cfg.SMTP,
	}

	log.Info().
		Str("redis", redisOpt.Addr).
		Str("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port).
		Int("concurrency", wc.Concurrency).
		Msg("Worker config loaded")
	return wc
}
