package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config holds the runtime configuration, loaded from the environment with
// an optional .env file for local development.
type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	ResendAPIKey string
	EmailFrom    string
}

// Load reads the configuration. DATABASE_URL is the only hard requirement;
// everything else has a development default.
func Load() (*Config, error) {
	// Missing .env is fine in production; the environment is already set.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getInt("PORT", 8080),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      getString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		MinioEndpoint:  getString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		EmailFrom:      getString("EMAIL_FROM", "orders@brewtrack.local"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
