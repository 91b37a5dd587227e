// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultMongoURI        = "mongodb://127.0.0.1:27017"
	defaultShutdownTimeout = 10 * time.Second
	defaultConnectTimeout  = 5 * time.Second
)

type Config struct {
	Port     string `validate:"required,numeric"`
	GRPCPort string `validate:"omitempty,numeric"`
	Env      string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`

	Mongo MongoConfig

	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type MongoConfig struct {
	URI            string        `validate:"required,mongodb_connection_string"`
	Database       string        `validate:"required"`
	Collection     string        `validate:"required"`
	ConnectTimeout time.Duration `validate:"gt=0"`
}

// Load reads the configuration from the environment, after applying a
// .env file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if os.Getenv("MONGO_URI") == "" {
		slog.Warn("MONGO_URI environment variable not set, using default connection string", slog.String("uri", defaultMongoURI))
	}

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		GRPCPort: lookupEnv("GRPC_PORT", "9092"),
		Env:      getEnv("ENV", "development"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", defaultMongoURI),
			Database:       getEnv("MONGO_DATABASE", "mflix"),
			Collection:     getEnv("MONGO_COLLECTION", "movies"),
			ConnectTimeout: getDuration("MONGO_CONNECT_TIMEOUT", defaultConnectTimeout),
		},

		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv treats an empty variable like an unset one.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// lookupEnv keeps an explicitly empty value, which is how optional
// listeners are switched off.
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
