package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// Store wraps database access helpers.
type Store struct {
	pool      *pgxpool.Pool
	script    string
	mapConfig markerfeed.MapConfig
}

// New creates a Store backed by a pgx pool. Sites of the given script are
// served on the map described by mapConfig.
func New(ctx context.Context, databaseURL, script string, mapConfig markerfeed.MapConfig) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, script: script, mapConfig: mapConfig}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Site is a stored site together with its latest reading, if any.
type Site struct {
	ID         string     `json:"id"`
	Script     string     `json:"script"`
	SiteNumber string     `json:"site_number"`
	Name       string     `json:"name"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	Type       string     `json:"type"`
	URL        *string    `json:"url,omitempty"`
	FlowUnit   *string    `json:"flow_unit,omitempty"`
	LevelUnit  *string    `json:"level_unit,omitempty"`
	Metadata   []byte     `json:"metadata,omitempty"`
	Flow       *float64   `json:"flow,omitempty"`
	Level      *float64   `json:"level,omitempty"`
	TS         *time.Time `json:"ts,omitempty"`
}

// siteMetadata is the marker state the watcher keeps in sites.metadata.
type siteMetadata struct {
	ColourIndex      int    `json:"colourIndex"`
	Total            string `json:"total"`
	TotalColourIndex int    `json:"totalColourIndex"`
}

const listSitesSQL = `
    SELECT s.id, s.script, s.site_number, s.name, s.lat, s.lon, s.site_type, s.url, s.flow_unit, s.level_unit, s.metadata,
           r.flow, r.level, r.ts
    FROM riverflow.sites s
    LEFT JOIN LATERAL (
        SELECT flow, level, ts
        FROM riverflow.readings
        WHERE site_id = s.id
        ORDER BY ts DESC
        LIMIT 1
    ) r ON TRUE
    WHERE s.script = $1
    ORDER BY s.site_number
`

// ListSites returns the sites of the store's script with their latest reading.
func (s *Store) ListSites(ctx context.Context) ([]Site, error) {
	rows, err := s.pool.Query(ctx, listSitesSQL, s.script)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]Site, 0)
	for rows.Next() {
		var site Site
		if err := rows.Scan(
			&site.ID,
			&site.Script,
			&site.SiteNumber,
			&site.Name,
			&site.Lat,
			&site.Lon,
			&site.Type,
			&site.URL,
			&site.FlowUnit,
			&site.LevelUnit,
			&site.Metadata,
			&site.Flow,
			&site.Level,
			&site.TS,
		); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// Feed rebuilds the marker feed from stored sites.
func (s *Store) Feed(ctx context.Context) (*markerfeed.Feed, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	markers := make([]markerfeed.SiteMarker, 0, len(sites))
	for _, site := range sites {
		m, err := site.Marker()
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markerfeed.NewFeed(s.mapConfig, markers)
}

// LatestReadings returns the newest stored reading of every site that has one.
func (s *Store) LatestReadings(ctx context.Context) ([]markerfeed.Measurement, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(sites, func(site Site, _ int) (markerfeed.Measurement, bool) {
		if site.TS == nil {
			return markerfeed.Measurement{}, false
		}
		return markerfeed.Measurement{
			GaugeID:   markerfeed.GaugeID{Script: site.Script, Code: site.SiteNumber},
			Timestamp: site.TS.UTC(),
			Flow:      site.Flow,
			Level:     site.Level,
		}, true
	}), nil
}

// Marker converts the stored site back into a map marker. Sites without
// metadata get zero colour indices; unreadable metadata is an error.
func (site Site) Marker() (markerfeed.SiteMarker, error) {
	var meta siteMetadata
	if len(site.Metadata) > 0 {
		if err := json.Unmarshal(site.Metadata, &meta); err != nil {
			return markerfeed.SiteMarker{}, fmt.Errorf("site %s metadata: %w", site.ID, err)
		}
	}

	m := markerfeed.SiteMarker{
		Lat:              site.Lat,
		Lng:              site.Lon,
		SiteName:         site.Name,
		SiteNumber:       site.SiteNumber,
		ColourIndex:      meta.ColourIndex,
		Total:            meta.Total,
		TotalColourIndex: meta.TotalColourIndex,
		Type:             markerfeed.SiteType(site.Type),
	}
	switch {
	case site.Flow != nil:
		m.Value = formatValue(*site.Flow, lo.FromPtrOr(site.FlowUnit, ""), "m3/s")
	case site.Level != nil:
		m.Value = formatValue(*site.Level, lo.FromPtrOr(site.LevelUnit, ""), "m")
	}
	return m, nil
}

func formatValue(v float64, unit, fallback string) string {
	if unit == "" {
		unit = fallback
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + unit
}
