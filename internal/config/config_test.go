package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("FRONTEND_ORIGIN", "https://launchsignal.app/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Cookie.Name)
	assert.Equal(t, 72*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, int64(25<<20), cfg.App.MaxBodyBytes)
	assert.False(t, cfg.Moderation.ResetOnEdit)
	assert.Equal(t, []string{
		"http://localhost:8080",
		"http://127.0.0.1:8080",
		"https://launchsignal.app",
	}, cfg.CORS.AllowedOrigins)
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("GOOGLE_CLIENT_ID", "client")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestValidateAdminSeedNeedsPassword(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ADMIN_EMAIL", "Admin@Example.com")

	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "longpassword")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestValidateProductionNeedsSecureCookie(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_COOKIE_SECURE")

	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.Cookie.Secure)
}
