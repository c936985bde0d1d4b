package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, reading from environment variables")
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		DB: DBConfig{
			Path: getEnv("DB_PATH", "pong.db"),
			Turso: TursoConfig{
				PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
				AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
			},
		},
		Rounds: RoundsConfig{
			AutoRackStatus: getEnvBool("AUTO_RACK_STATUS", true),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return b
}
