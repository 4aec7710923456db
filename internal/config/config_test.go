package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:     "8080",
		Env:            "development",
		DatabaseURL:    "postgres://localhost/blog",
		JWTSecret:      "test-secret",
		SessionTTL:     168 * time.Hour,
		RequestTimeout: 30 * time.Second,
		MaxUploadSize:  1024,
		MediaRoot:      "./state/media",
		ThumbnailRoot:  "./state/thumbnails",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("rejects missing signing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "   "
		require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("rejects missing database URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("rejects non-positive session ttl", func(t *testing.T) {
		cfg := validConfig()
		cfg.SessionTTL = 0
		require.ErrorContains(t, cfg.Validate(), "SESSION_TTL")
	})
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.False(t, cfg.IsProduction())

	cfg.Env = "production"
	require.True(t, cfg.IsProduction())
}
