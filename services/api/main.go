package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/snapshot"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/api/config"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/api/db"
	httpserver "github.com/02loveslollipop/Shizuku-riverflow-map/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var source httpserver.FeedSource
	switch {
	case cfg.DatabaseURL != "":
		store, err := db.New(ctx, cfg.DatabaseURL, cfg.FeedKey, markerfeed.CanterburyConfig())
		if err != nil {
			log.Fatalf("db connection error: %v", err)
		}
		defer store.Close()
		source = store
		log.Info("serving sites from the database")
	case cfg.SnapshotDir != "":
		store, err := snapshot.Open(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("snapshot error: %v", err)
		}
		defer store.Close()
		source = snapshot.Source{Store: store, Key: cfg.FeedKey}
		log.WithField("dir", cfg.SnapshotDir).Info("serving the latest snapshot")
	default:
		source = httpserver.StaticSource{F: markerfeed.Canterbury()}
		log.Warn("no DATABASE_URL or SNAPSHOT_DIR: serving the compiled-in feed")
	}

	srv := httpserver.New(cfg, source)
	log.Infof("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
