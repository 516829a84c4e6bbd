package models

import "time"

// SiteRow captures the normalized site metadata for DB operations.
type SiteRow struct {
	ID         string
	Script     string
	SiteNumber string
	Name       string
	Lat        float64
	Lon        float64
	Type       string
	URL        string
	FlowUnit   string
	LevelUnit  string
	Metadata   map[string]any
}

// ReadingCandidate encapsulates a normalized reading ready for insertion.
type ReadingCandidate struct {
	SiteID string
	Flow   *float64
	Level  *float64
	TS     time.Time
}

// LastReading represents the most recent stored reading for comparison.
type LastReading struct {
	Flow  *float64
	Level *float64
	TS    time.Time
}
