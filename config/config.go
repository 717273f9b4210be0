package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	JWTSecret      string
	JWTExpiration  time.Duration
	ServerPort     string
	Env            string
	LogLevel       string
	ConflictChecks bool
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/shiftly"),
		JWTSecret:      getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:  24 * time.Hour,
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ConflictChecks: getEnv("CONFLICT_CHECKS", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
