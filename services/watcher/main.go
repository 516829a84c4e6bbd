package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/ecan"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/snapshot"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/watcher/internal/config"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/watcher/internal/db"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/watcher/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("watcher failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	// one request for the map, one per regional table
	requests := time.Duration(1 + len(ecan.Regions))
	ctx, cancel := context.WithTimeout(context.Background(), requests*cfg.RequestTimeout+10*time.Second)
	defer cancel()

	runID := uuid.New().String()
	logger := log.WithFields(log.Fields{"run": runID, "script": cfg.FeedScript})

	client := &http.Client{Timeout: cfg.RequestTimeout}
	retrievalTS := time.Now().UTC().Truncate(time.Second)

	feed, err := ecan.FetchFeed(ctx, client, cfg.FeedURL, markerfeed.WithVar(cfg.LinkVar, cfg.LinkBase))
	if err != nil {
		return err
	}
	logger.Infof("fetched %d sites (mount=%s)", feed.Len(), feed.Config().MountTargetID)

	if cfg.SnapshotDir != "" {
		if err := writeSnapshot(ctx, cfg, feed, retrievalTS); err != nil {
			return err
		}
		logger.WithField("dir", cfg.SnapshotDir).Info("snapshot updated")
	}

	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set: skipping site and reading storage")
		return nil
	}

	readings, err := fetchReadings(ctx, client, cfg, feed, retrievalTS, logger)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	siteRows := utils.BuildSiteRows(feed, cfg.FeedScript, readings)
	if cfg.DryRun {
		logger.Infof("dry-run: skipping site upsert (%d candidates)", len(siteRows))
	} else {
		if err := db.UpsertSites(ctx, pool, siteRows); err != nil {
			return err
		}
	}

	siteIDs := utils.SiteIDs(siteRows)
	lastMap, err := db.FetchLastReadings(ctx, pool, siteIDs)
	if err != nil {
		return err
	}

	candidates := utils.BuildReadingCandidates(readings, siteIDs)
	if dropped := len(readings) - len(candidates); dropped > 0 {
		logger.Warnf("ignoring %d readings of sites missing from the map", dropped)
	}
	pending := utils.FilterNewReadings(candidates, lastMap, cfg.MinInterval, cfg.ValueEpsilon)

	if len(pending) == 0 {
		logger.Infof("no new readings to insert (retrieval=%s)", retrievalTS.Format(time.RFC3339))
		return nil
	}

	logger.Infof("prepared %d new readings (dry-run=%v)", len(pending), cfg.DryRun)

	if cfg.DryRun {
		for _, cand := range pending {
			logger.WithFields(log.Fields{
				"site":  cand.SiteID,
				"ts":    cand.TS.Format(time.RFC3339),
				"flow":  utils.ValuePtrString(cand.Flow),
				"level": utils.ValuePtrString(cand.Level),
			}).Info("dry-run: would insert reading")
		}
		return nil
	}

	if err := db.InsertReadings(ctx, pool, runID, pending); err != nil {
		return err
	}

	logger.Infof("inserted %d readings", len(pending))
	return nil
}

// fetchReadings harvests the regional tables, or reads the marker values
// stamped with the retrieval time when the tables are disabled.
func fetchReadings(ctx context.Context, client *http.Client, cfg config.Config, feed *markerfeed.Feed, retrievalTS time.Time, logger *log.Entry) ([]markerfeed.Measurement, error) {
	if cfg.ListURL == "" {
		logger.Warn("FEED_LIST_URL disabled: using map marker values stamped with the retrieval time")
		return feed.Measurements(cfg.FeedScript, retrievalTS), nil
	}

	readings, err := ecan.FetchReadings(ctx, client, cfg.ListURL, cfg.FeedScript, retrievalTS)
	if err != nil {
		return nil, err
	}
	logger.Infof("harvested %d readings from %d regional tables", len(readings), len(ecan.Regions))
	return readings, nil
}

func writeSnapshot(ctx context.Context, cfg config.Config, feed *markerfeed.Feed, fetchedAt time.Time) error {
	store, err := snapshot.Open(cfg.SnapshotDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Put(ctx, cfg.FeedScript, feed, fetchedAt)
}
