package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/watcher/internal/models"
)

// SiteID builds the database identifier of a site.
func SiteID(script, siteNumber string) string {
	return fmt.Sprintf("%s_%s", script, siteNumber)
}

// BuildSiteRows converts feed markers into database-ready site rows. Sites
// get a unit for every quantity readings report for them.
func BuildSiteRows(feed *markerfeed.Feed, script string, readings []markerfeed.Measurement) []models.SiteRow {
	markers := feed.Markers()
	gauges := markerfeed.FillUnits(feed.Gauges(script), readings)
	rows := make([]models.SiteRow, 0, len(gauges))
	for i, g := range gauges {
		m := markers[i]
		metadata := map[string]any{
			"source":           "map",
			"colourIndex":      m.ColourIndex,
			"total":            m.Total,
			"totalColourIndex": m.TotalColourIndex,
			"kind":             m.Kind().String(),
		}
		rows = append(rows, models.SiteRow{
			ID:         SiteID(script, m.SiteNumber),
			Script:     script,
			SiteNumber: m.SiteNumber,
			Name:       g.Name,
			Lat:        g.Location.Latitude,
			Lon:        g.Location.Longitude,
			Type:       string(m.Type),
			URL:        g.URL,
			FlowUnit:   g.FlowUnit,
			LevelUnit:  g.LevelUnit,
			Metadata:   metadata,
		})
	}
	// a site listed twice upstream is upserted once, last entry wins
	byID := lo.KeyBy(rows, func(r models.SiteRow) string { return r.ID })
	return lo.Map(lo.UniqBy(rows, func(r models.SiteRow) string { return r.ID }), func(r models.SiteRow, _ int) models.SiteRow {
		return byID[r.ID]
	})
}

// SiteIDs extracts site identifiers from site rows.
func SiteIDs(rows []models.SiteRow) []string {
	return lo.Map(rows, func(row models.SiteRow, _ int) string { return row.ID })
}

// BuildReadingCandidates normalizes measurements into reading candidates.
// Measurements of sites outside siteIDs are dropped.
func BuildReadingCandidates(measurements []markerfeed.Measurement, siteIDs []string) []models.ReadingCandidate {
	known := lo.SliceToMap(siteIDs, func(id string) (string, struct{}) { return id, struct{}{} })
	return lo.FilterMap(measurements, func(m markerfeed.Measurement, _ int) (models.ReadingCandidate, bool) {
		id := SiteID(m.Script, m.Code)
		if _, ok := known[id]; !ok {
			return models.ReadingCandidate{}, false
		}
		return models.ReadingCandidate{
			SiteID: id,
			Flow:   NormalizeValue(m.Flow),
			Level:  NormalizeValue(m.Level),
			TS:     m.Timestamp.UTC(),
		}, true
	})
}

// NormalizeValue drops sentinel readings; -999 style values -> nil.
func NormalizeValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if *v <= -900 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	val := *v
	return &val
}

// FilterNewReadings selects candidates that should be inserted.
func FilterNewReadings(
	candidates []models.ReadingCandidate,
	last map[string]models.LastReading,
	minInterval time.Duration,
	epsilon float64,
) []models.ReadingCandidate {
	return lo.Filter(candidates, func(cand models.ReadingCandidate, _ int) bool {
		if cand.Flow == nil && cand.Level == nil {
			return false
		}

		prev, ok := last[cand.SiteID]
		if !ok {
			return true
		}

		if cand.TS.Sub(prev.TS) >= minInterval {
			return true
		}

		return !ValuesEqual(prev.Flow, cand.Flow, epsilon) || !ValuesEqual(prev.Level, cand.Level, epsilon)
	})
}

// ValuesEqual compares two optional float values with tolerance.
func ValuesEqual(a, b *float64, epsilon float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return math.Abs(*a-*b) <= epsilon
	}
}

// ValuePtrString prints pointer values for logging.
func ValuePtrString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}
