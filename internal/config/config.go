package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        string
	PostgresDSN string
	JWTSecret   string
	TokenTTL    time.Duration
}

func Load() *Config {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	ttl := time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid TOKEN_TTL %q: %v", v, err)
		}
		ttl = d
	}

	return &Config{
		Port:        getenv("PORT", "8080"),
		PostgresDSN: getenv("POSTGRES_DSN", ""),
		JWTSecret:   secret,
		TokenTTL:    ttl,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
