package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/Shizuku-riverflow-map/services/watcher/internal/models"
)

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS riverflow;

CREATE TABLE IF NOT EXISTS riverflow.sites (
    id          text PRIMARY KEY,
    script      text NOT NULL,
    site_number text NOT NULL,
    name        text NOT NULL,
    lat         double precision NOT NULL,
    lon         double precision NOT NULL,
    site_type   text NOT NULL,
    url         text,
    flow_unit   text,
    level_unit  text,
    metadata    jsonb,
    created_at  timestamptz NOT NULL DEFAULT NOW(),
    updated_at  timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS riverflow.readings (
    site_id     text NOT NULL REFERENCES riverflow.sites (id),
    ts          timestamptz NOT NULL,
    flow        double precision,
    level       double precision,
    run_id      uuid,
    ingested_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at  timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (site_id, ts)
);`

// EnsureSchema creates the riverflow schema when it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// UpsertSites inserts/updates site metadata records.
func UpsertSites(ctx context.Context, pool *pgxpool.Pool, sites []models.SiteRow) error {
	if len(sites) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO riverflow.sites (id, script, site_number, name, lat, lon, site_type, url, flow_unit, level_unit, metadata, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    lat = EXCLUDED.lat,
    lon = EXCLUDED.lon,
    site_type = EXCLUDED.site_type,
    url = EXCLUDED.url,
    flow_unit = EXCLUDED.flow_unit,
    level_unit = EXCLUDED.level_unit,
    metadata = EXCLUDED.metadata,
    updated_at = NOW()`

	for _, s := range sites {
		batch.Queue(query, s.ID, s.Script, s.SiteNumber, s.Name, s.Lat, s.Lon, s.Type, s.URL, s.FlowUnit, s.LevelUnit, s.Metadata)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range sites {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// FetchLastReadings loads the most recent stored reading per site.
func FetchLastReadings(ctx context.Context, pool *pgxpool.Pool, siteIDs []string) (map[string]models.LastReading, error) {
	result := make(map[string]models.LastReading, len(siteIDs))
	if len(siteIDs) == 0 {
		return result, nil
	}

	rows, err := pool.Query(ctx, `
SELECT DISTINCT ON (site_id) site_id, flow, level, ts
FROM riverflow.readings
WHERE site_id = ANY($1)
ORDER BY site_id, ts DESC`, siteIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var siteID string
		var flow, level *float64
		var ts time.Time
		if err := rows.Scan(&siteID, &flow, &level, &ts); err != nil {
			return nil, err
		}
		result[siteID] = models.LastReading{Flow: flow, Level: level, TS: ts}
	}

	return result, rows.Err()
}

// InsertReadings writes new reading entries tagged with the harvest run.
func InsertReadings(ctx context.Context, pool *pgxpool.Pool, runID string, readings []models.ReadingCandidate) error {
	if len(readings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO riverflow.readings (site_id, ts, flow, level, run_id, ingested_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
ON CONFLICT (site_id, ts) DO UPDATE
SET flow = EXCLUDED.flow,
    level = EXCLUDED.level,
    run_id = EXCLUDED.run_id,
    updated_at = NOW()`

	for _, r := range readings {
		batch.Queue(query, r.SiteID, r.TS, r.Flow, r.Level, runID)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range readings {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}
