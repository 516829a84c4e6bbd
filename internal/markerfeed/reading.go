package markerfeed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is what a reading measures.
type Kind int

const (
	KindUnknown Kind = iota
	KindFlow
	KindStage
)

func (k Kind) String() string {
	switch k {
	case KindFlow:
		return "flow"
	case KindStage:
		return "stage"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind appear as a string in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var unitKinds = map[string]Kind{
	"m3/s":   KindFlow,
	"m³/s":   KindFlow,
	"cumecs": KindFlow,
	"l/s":    KindFlow,
	"cfs":    KindFlow,
	"m":      KindStage,
	"cm":     KindStage,
	"mm":     KindStage,
	"ft":     KindStage,
}

// ClassifyUnit maps a unit suffix to a Kind.
func ClassifyUnit(unit string) Kind {
	return unitKinds[strings.ToLower(strings.TrimSpace(unit))]
}

// Reading is a display value split into number and unit.
type Reading struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Kind classifies the reading by its unit.
func (r Reading) Kind() Kind {
	return ClassifyUnit(r.Unit)
}

// ParseReading splits strings such as "7.592 m3/s" or "0.215". Escaped
// slashes left over from script embedding ("m3\/s") are accepted.
func ParseReading(s string) (Reading, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, `\/`, "/"))
	if s == "" {
		return Reading{}, errors.New("empty reading")
	}
	num, unit, _ := strings.Cut(s, " ")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid reading %q: %w", s, err)
	}
	return Reading{Value: v, Unit: strings.TrimSpace(unit)}, nil
}

// Kind trusts the site type when it is known and otherwise falls back to the
// unit of the displayed value.
func (m SiteMarker) Kind() Kind {
	switch m.Type {
	case SiteTypeFlow:
		return KindFlow
	case SiteTypeStage:
		return KindStage
	}
	r, err := ParseReading(m.Value)
	if err != nil {
		return KindUnknown
	}
	return r.Kind()
}

// UnitKind classifies the marker purely by the unit of its value.
func (m SiteMarker) UnitKind() Kind {
	r, err := ParseReading(m.Value)
	if err != nil {
		return KindUnknown
	}
	return r.Kind()
}
