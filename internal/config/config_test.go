package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "GRPC_PORT", "ENV", "LOG_LEVEL",
	"MONGO_URI", "MONGO_DATABASE", "MONGO_COLLECTION", "MONGO_CONNECT_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "9092", cfg.GRPCPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.Mongo.URI)
	assert.Equal(t, "mflix", cfg.Mongo.Database)
	assert.Equal(t, "movies", cfg.Mongo.Collection)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27018")
	t.Setenv("MONGO_DATABASE", "cinema")
	t.Setenv("MONGO_COLLECTION", "films")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "mongodb://db.internal:27018", cfg.Mongo.URI)
	assert.Equal(t, "cinema", cfg.Mongo.Database)
	assert.Equal(t, "films", cfg.Mongo.Collection)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EmptyPortFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoad_EmptyGRPCPortDisablesListener(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRPC_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.GRPCPort)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "-1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ConnectTimeout)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non numeric port", "PORT", "http"},
		{"non numeric grpc port", "GRPC_PORT", "grpc"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"not a mongo uri", "MONGO_URI", "postgres://localhost:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "info"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
}
