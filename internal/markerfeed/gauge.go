package markerfeed

import (
	"math"
	"time"

	"github.com/samber/lo"
)

// GaugeID identifies a gauge by the script that harvested it and its code.
type GaugeID struct {
	Script string `json:"script"`
	Code   string `json:"code"`
}

// Location is a gauge position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Gauge describes a site as a harvestable gauge.
type Gauge struct {
	GaugeID
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	LevelUnit string    `json:"levelUnit,omitempty"`
	FlowUnit  string    `json:"flowUnit,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

// Measurement is one observation of a gauge. Nil means not measured.
type Measurement struct {
	GaugeID
	Timestamp time.Time `json:"timestamp"`
	Flow      *float64  `json:"flow,omitempty"`
	Level     *float64  `json:"level,omitempty"`
}

// TruncCoord truncates a coordinate to 5 decimal places (about a metre).
func TruncCoord(value float64) float64 {
	return math.Trunc(value*100000) / 100000
}

func defaultUnit(k Kind) string {
	switch k {
	case KindFlow:
		return "m3/s"
	case KindStage:
		return "m"
	}
	return ""
}

// Gauge converts the marker into a gauge of the given script.
func (m SiteMarker) Gauge(script string, cfg MapConfig) Gauge {
	g := Gauge{
		GaugeID: GaugeID{Script: script, Code: m.SiteNumber},
		Name:    m.SiteName,
		URL:     cfg.SiteLink(m.SiteNumber),
		Location: &Location{
			Latitude:  TruncCoord(m.Lat),
			Longitude: TruncCoord(m.Lng),
		},
	}
	kind := m.Kind()
	unit := defaultUnit(kind)
	if r, err := ParseReading(m.Value); err == nil && r.Unit != "" && r.Kind() == kind {
		unit = r.Unit
	}
	switch kind {
	case KindFlow:
		g.FlowUnit = unit
	case KindStage:
		g.LevelUnit = unit
	}
	return g
}

// Measurement converts the marker value into a measurement taken at ts. It
// reports false when the value does not parse or its kind is unknown.
func (m SiteMarker) Measurement(script string, ts time.Time) (Measurement, bool) {
	r, err := ParseReading(m.Value)
	if err != nil {
		return Measurement{}, false
	}
	out := Measurement{
		GaugeID:   GaugeID{Script: script, Code: m.SiteNumber},
		Timestamp: ts.UTC(),
	}
	v := r.Value
	switch m.Kind() {
	case KindFlow:
		out.Flow = &v
	case KindStage:
		out.Level = &v
	default:
		return Measurement{}, false
	}
	return out, true
}

// Gauges lists one gauge per marker in feed order.
func (f *Feed) Gauges(script string) []Gauge {
	return lo.Map(f.markers, func(m SiteMarker, _ int) Gauge {
		return m.Gauge(script, f.config)
	})
}

// Measurements lists the measurements that could be read off the markers.
func (f *Feed) Measurements(script string, ts time.Time) []Measurement {
	return lo.FilterMap(f.markers, func(m SiteMarker, _ int) (Measurement, bool) {
		return m.Measurement(script, ts)
	})
}

// FillUnits returns gauges with the default unit of every quantity their
// readings carry. Units already set are kept.
func FillUnits(gauges []Gauge, readings []Measurement) []Gauge {
	byID := lo.GroupBy(readings, func(m Measurement) GaugeID { return m.GaugeID })
	return lo.Map(gauges, func(g Gauge, _ int) Gauge {
		for _, m := range byID[g.GaugeID] {
			if m.Flow != nil && g.FlowUnit == "" {
				g.FlowUnit = defaultUnit(KindFlow)
			}
			if m.Level != nil && g.LevelUnit == "" {
				g.LevelUnit = defaultUnit(KindStage)
			}
		}
		return g
	})
}
