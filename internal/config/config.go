package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs before it can serve a
// request. The desktop shell injects DATABASE_URL and JWT_SECRET through
// the environment (or a .env file next to the binary).
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	AssetsDir   string
	ChromePath  string
}

// ErrMissingDatabaseURL is returned when no persistence endpoint was
// injected; the gateway cannot be used before this is set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Best effort: missing .env just means the shell set real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AssetsDir:   getEnv("ASSETS_DIR", "assets"),
		ChromePath:  os.Getenv("CHROME_PATH"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
