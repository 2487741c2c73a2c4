package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	JWTSecret   string
	FrontendURL string
	// Calendly integration
	CalendlySigningKey string
	// Redis/Upstash Configuration (webhook replay cache)
	UpstashRedisURL      string
	UpstashRedisPassword string
	WebhookReplayTTLMin  int
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBUrl:     getEnv("DATABASE_URL", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		// Trailing slash stripped so derived room links never contain double slashes
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CalendlySigningKey: getEnv("CALENDLY_WEBHOOK_SIGNING_KEY", ""),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		WebhookReplayTTLMin:  getEnvInt("WEBHOOK_REPLAY_TTL_MINUTES", 1440), // 24h window
	}

	// Basic validation to avoid confusing failures later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Authenticated routes will reject all tokens.")
	}
	if cfg.CalendlySigningKey == "" {
		log.Println("WARNING: CALENDLY_WEBHOOK_SIGNING_KEY not configured. Webhook signatures cannot be verified.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Webhook replay cache disabled.")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in release mode.
// Webhook signature enforcement keys off this.
func (c *Config) IsProduction() bool {
	return os.Getenv("GIN_MODE") == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
