package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds the application configuration loaded from the environment.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Google     GoogleConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	MinIO      MinIOConfig
	CORS       CORSConfig
	Moderation ModerationConfig
	Worker     WorkerConfig
}

type AppConfig struct {
	Name         string
	Environment  string // development, staging, production
	Port         string
	Version      string
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type GoogleConfig struct {
	ClientID string
}

// AdminConfig seeds the account that receives the admin permission at boot.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

type SMTPConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	From         string
	ContactInbox string
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ModerationConfig struct {
	// ResetOnEdit sends edited approved/rejected listings back to pending.
	ResetOnEdit bool
}

type WorkerConfig struct {
	Concurrency int
	HealthAddr  string
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "LaunchSignal API"),
			Environment:  getEnv("APP_ENV", "development"),
			Port:         getEnv("APP_PORT", "5000"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			MaxBodyBytes: int64(getEnvInt("APP_MAX_BODY_MB", 25)) << 20,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "launchsignal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", defaultJWTSecret),
			SessionTTL: time.Duration(getEnvInt("JWT_SESSION_HOURS", 72)) * time.Hour,
		},
		Cookie: CookieConfig{
			Name:   getEnv("SESSION_COOKIE_NAME", "token"),
			Secure: getEnvBool("SESSION_COOKIE_SECURE", true),
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Admin: AdminConfig{
			Email:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
			Password: getEnv("ADMIN_PASSWORD", ""),
			FullName: getEnv("ADMIN_NAME", "LaunchSignal Admin"),
		},
		SMTP: SMTPConfig{
			Host:         getEnv("SMTP_HOST", "localhost"),
			Port:         getEnv("SMTP_PORT", "1025"),
			Username:     getEnv("SMTP_USER", ""),
			Password:     getEnv("SMTP_PASS", ""),
			From:         getEnv("SMTP_FROM", "noreply@launchsignal.dev"),
			ContactInbox: getEnv("CONTACT_INBOX", "hello@launchsignal.dev"),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "launchsignal"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(
				getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080"),
				getEnv("FRONTEND_ORIGIN", ""),
			),
		},
		Moderation: ModerationConfig{
			ResetOnEdit: getEnvBool("MODERATION_RESET_ON_EDIT", false),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 10),
			HealthAddr:  getEnv("WORKER_HEALTH_ADDR", ":9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that are unsafe to run in production.
func (c *Config) Validate() error {
	if c.JWT.SessionTTL <= 0 {
		return fmt.Errorf("JWT_SESSION_HOURS must be positive")
	}
	if c.App.MaxBodyBytes <= 0 {
		return fmt.Errorf("APP_MAX_BODY_MB must be positive")
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set when ADMIN_EMAIL is set")
	}

	if c.IsProduction() {
		if !c.Cookie.Secure {
			return fmt.Errorf("SESSION_COOKIE_SECURE cannot be disabled in production")
		}
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Google.ClientID == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID must be set in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func allowedOrigins(list, frontend string) []string {
	seen := make(map[string]bool)
	var origins []string
	for _, o := range append(strings.Split(list, ","), frontend) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
