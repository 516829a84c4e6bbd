package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

const (
	defaultFeedURL        = "https://ecan.govt.nz/data/riverflow/RiverflowGeo/ALL"
	defaultListURL        = "https://ecan.govt.nz/data/riverflow/RiverflowList"
	defaultFeedScript     = "nzcan"
	defaultLinkVar        = "LinkTo"
	defaultMinInterval    = 5 * time.Minute
	defaultRequestTimeout = 30 * time.Second
	defaultValueEpsilon   = 0.001
)

// Config holds runtime configuration for the watcher service.
type Config struct {
	DatabaseURL    string
	FeedURL        string
	ListURL        string
	FeedScript     string
	LinkVar        string
	LinkBase       string
	SnapshotDir    string
	MinInterval    time.Duration
	RequestTimeout time.Duration
	ValueEpsilon   float64
	DryRun         bool
	LogLevel       log.Level
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	// Without a database the watcher only refreshes the snapshot.
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.SnapshotDir = strings.TrimSpace(os.Getenv("SNAPSHOT_DIR"))

	cfg.FeedURL = strings.TrimSpace(os.Getenv("FEED_URL"))
	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultFeedURL
	}

	// "none" reads values off the map markers instead of the regional tables.
	cfg.ListURL = strings.TrimSpace(os.Getenv("FEED_LIST_URL"))
	switch {
	case cfg.ListURL == "":
		cfg.ListURL = defaultListURL
	case strings.EqualFold(cfg.ListURL, "none"):
		cfg.ListURL = ""
	}

	cfg.FeedScript = strings.TrimSpace(os.Getenv("FEED_SCRIPT"))
	if cfg.FeedScript == "" {
		cfg.FeedScript = defaultFeedScript
	}

	cfg.LinkVar = strings.TrimSpace(os.Getenv("FEED_LINK_VAR"))
	if cfg.LinkVar == "" {
		cfg.LinkVar = defaultLinkVar
	}

	cfg.LinkBase = strings.TrimSpace(os.Getenv("FEED_LINK_BASE"))
	if cfg.LinkBase == "" {
		cfg.LinkBase = markerfeed.CanterburyLinkTo
	}

	cfg.MinInterval = defaultMinInterval
	if v := strings.TrimSpace(os.Getenv("WATCHER_MIN_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_MIN_INTERVAL: %w", err)
		}
		cfg.MinInterval = d
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("WATCHER_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.ValueEpsilon = defaultValueEpsilon
	if v := strings.TrimSpace(os.Getenv("WATCHER_VALUE_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_VALUE_EPSILON: %w", err)
		}
		cfg.ValueEpsilon = f
	}

	cfg.LogLevel = log.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
