// Package config loads process configuration from the environment, per §6 and its
// expansion. Missing required variables are a fatal startup error, not a runtime one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the core needs at Startup.
type Config struct {
	XAIAPIKey   string
	XAIAPIBase  string
	XAIModel    string
	DatabaseURL string
	SecretKey   string

	EnableCollections bool
	CollectionIDs     []string

	CachePersistPath      string
	RequestTimeoutSeconds int
	OTelTracingEnabled    bool
	UpstreamRateLimitRPS  float64

	HTTPPort string
}

// Load reads .env (if present) then the process environment, applying defaults and
// failing fast on missing required variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		XAIAPIKey:             os.Getenv("XAI_API_KEY"),
		XAIAPIBase:            getEnv("XAI_API_BASE", "https://api.x.ai/v1"),
		XAIModel:              getEnv("XAI_MODEL", "grok-4-1-fast-reasoning"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SecretKey:             os.Getenv("SECRET_KEY"),
		EnableCollections:     getEnvBool("ENABLE_COLLECTIONS", false),
		CollectionIDs:         collectionIDs(),
		CachePersistPath:      os.Getenv("CACHE_PERSIST_PATH"),
		RequestTimeoutSeconds: getEnvInt("REQUEST_TIMEOUT_SECONDS", 60),
		OTelTracingEnabled:    getEnvBool("OTEL_TRACING_ENABLED", false),
		UpstreamRateLimitRPS:  getEnvFloat("UPSTREAM_RATE_LIMIT_RPS", 20),
		HTTPPort:              getEnv("PORT", "8080"),
	}

	if cfg.XAIAPIKey == "" {
		return nil, fmt.Errorf("fatal: XAI_API_KEY is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("fatal: SECRET_KEY is required")
	}

	return cfg, nil
}

func collectionIDs() []string {
	var ids []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "COLLECTION_ID_") {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 && parts[1] != "" {
			ids = append(ids, parts[1])
		}
	}
	return ids
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
