package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/transitlabs/metrodocs/internal/logger"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment     string
	HTTPPort        string
	DatabasePath    string
	UploadDir       string
	JWTSecret       string
	ProcessingDelay time.Duration
	// NotifyURLs holds shoutrrr service URLs for external alerts, comma separated.
	NotifyURLs []string
}

// Load reads env vars (optionally from a .env file) and falls back to defaults
// so the server can boot with zero configuration in development.
func Load() (Config, error) {
	// Missing .env is fine; real env vars always win.
	_ = godotenv.Load()

	cfg := Config{
		Environment:     getEnv("METRODOCS_ENV", "development"),
		HTTPPort:        getEnv("METRODOCS_HTTP_PORT", "8080"),
		DatabasePath:    getEnv("METRODOCS_DB_PATH", filepath.Join("data", "metrodocs.db")),
		UploadDir:       getEnv("METRODOCS_UPLOAD_DIR", filepath.Join("data", "uploads")),
		JWTSecret:       os.Getenv("METRODOCS_JWT_SECRET"),
		ProcessingDelay: getEnvDuration("METRODOCS_PROCESSING_DELAY", 3*time.Second),
	}

	if urls := os.Getenv("METRODOCS_NOTIFY_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.NotifyURLs = append(cfg.NotifyURLs, u)
			}
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("METRODOCS_JWT_SECRET must be set in production")
		}
		// Ephemeral secret: tokens do not survive a restart, which is acceptable in dev.
		cfg.JWTSecret = randomSecret()
		logger.Log().Warn("METRODOCS_JWT_SECRET not set, generated ephemeral secret for development")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure upload directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Bare numbers are treated as seconds.
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	return fallback
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	return hex.EncodeToString(buf)
}
