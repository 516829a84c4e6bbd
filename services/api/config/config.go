package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL string
	SnapshotDir string
	FeedKey     string
	MapBaseHref string
	Port        int
	BearerToken string
	LogLevel    log.Level
	Scripts     []string
	Stylesheets []string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		FeedKey:  "nzcan",
		Port:     8080,
		LogLevel: log.InfoLevel,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SnapshotDir = os.Getenv("SNAPSHOT_DIR")
	cfg.MapBaseHref = os.Getenv("MAP_BASE_HREF")

	if key := strings.TrimSpace(os.Getenv("FEED_KEY")); key != "" {
		cfg.FeedKey = key
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		level, err := log.ParseLevel(levelStr)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	cfg.Scripts = splitList(os.Getenv("MAP_SCRIPTS"))
	cfg.Stylesheets = splitList(os.Getenv("MAP_STYLESHEETS"))
	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
