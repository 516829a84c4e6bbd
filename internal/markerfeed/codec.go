package markerfeed

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// Document is the canonical JSON form of a feed.
type Document struct {
	Config  MapConfig    `json:"config"`
	Markers []SiteMarker `json:"markers"`
}

// wireMarker mirrors SiteMarker with pointers so absent fields can be told
// apart from zero values.
type wireMarker struct {
	Lat              *float64  `json:"lat"`
	Lng              *float64  `json:"lng"`
	SiteName         *string   `json:"siteName"`
	SiteNumber       *string   `json:"siteNumber"`
	Value            *string   `json:"value"`
	ColourIndex      *int      `json:"colourIndex"`
	Total            *string   `json:"total"`
	TotalColourIndex *int      `json:"totalColourIndex"`
	Type             *SiteType `json:"type"`
}

func (w wireMarker) missing() error {
	errs := validation.Errors{}
	required := map[string]bool{
		"lat":              w.Lat == nil,
		"lng":              w.Lng == nil,
		"siteName":         w.SiteName == nil,
		"siteNumber":       w.SiteNumber == nil,
		"value":            w.Value == nil,
		"colourIndex":      w.ColourIndex == nil,
		"total":            w.Total == nil,
		"totalColourIndex": w.TotalColourIndex == nil,
		"type":             w.Type == nil,
	}
	for field, absent := range required {
		if absent {
			errs[field] = validation.ErrRequired
		}
	}
	return errs.Filter()
}

func (w wireMarker) marker() SiteMarker {
	return SiteMarker{
		Lat:              *w.Lat,
		Lng:              *w.Lng,
		SiteName:         norm.NFC.String(*w.SiteName),
		SiteNumber:       *w.SiteNumber,
		Value:            *w.Value,
		ColourIndex:      *w.ColourIndex,
		Total:            *w.Total,
		TotalColourIndex: *w.TotalColourIndex,
		Type:             *w.Type,
	}
}

type wireLatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type wireBounds struct {
	North *float64 `json:"north"`
	South *float64 `json:"south"`
	East  *float64 `json:"east"`
	West  *float64 `json:"west"`
}

type wireConfig struct {
	MountTargetID  *string     `json:"mountTargetId"`
	BaseLinkHref   *string     `json:"baseLinkHref"`
	InitialCenter  *wireLatLng `json:"initialCenter"`
	InitialZoom    *int        `json:"initialZoom"`
	MinZoom        *int        `json:"minZoom"`
	IconField      *string     `json:"iconField"`
	ColorRangeName *string     `json:"colorRangeName"`
	Bounds         *wireBounds `json:"bounds"`
}

func (w wireConfig) missing() error {
	errs := validation.Errors{}
	if w.MountTargetID == nil {
		errs["mountTargetId"] = validation.ErrRequired
	}
	if w.BaseLinkHref == nil {
		errs["baseLinkHref"] = validation.ErrRequired
	}
	if w.InitialZoom == nil {
		errs["initialZoom"] = validation.ErrRequired
	}
	if w.MinZoom == nil {
		errs["minZoom"] = validation.ErrRequired
	}
	if w.IconField == nil {
		errs["iconField"] = validation.ErrRequired
	}
	if w.ColorRangeName == nil {
		errs["colorRangeName"] = validation.ErrRequired
	}
	switch {
	case w.InitialCenter == nil:
		errs["initialCenter"] = validation.ErrRequired
	case w.InitialCenter.Lat == nil || w.InitialCenter.Lng == nil:
		errs["initialCenter"] = validation.Errors{
			"lat": lo.Ternary[error](w.InitialCenter.Lat == nil, validation.ErrRequired, nil),
			"lng": lo.Ternary[error](w.InitialCenter.Lng == nil, validation.ErrRequired, nil),
		}.Filter()
	}
	switch {
	case w.Bounds == nil:
		errs["bounds"] = validation.ErrRequired
	case w.Bounds.North == nil || w.Bounds.South == nil || w.Bounds.East == nil || w.Bounds.West == nil:
		errs["bounds"] = validation.Errors{
			"north": lo.Ternary[error](w.Bounds.North == nil, validation.ErrRequired, nil),
			"south": lo.Ternary[error](w.Bounds.South == nil, validation.ErrRequired, nil),
			"east":  lo.Ternary[error](w.Bounds.East == nil, validation.ErrRequired, nil),
			"west":  lo.Ternary[error](w.Bounds.West == nil, validation.ErrRequired, nil),
		}.Filter()
	}
	return errs.Filter()
}

func (w wireConfig) config() MapConfig {
	return MapConfig{
		MountTargetID:  *w.MountTargetID,
		BaseLinkHref:   *w.BaseLinkHref,
		InitialCenter:  LatLng{Lat: *w.InitialCenter.Lat, Lng: *w.InitialCenter.Lng},
		InitialZoom:    *w.InitialZoom,
		MinZoom:        *w.MinZoom,
		IconField:      *w.IconField,
		ColorRangeName: *w.ColorRangeName,
		Bounds: Bounds{
			North: *w.Bounds.North,
			South: *w.Bounds.South,
			East:  *w.Bounds.East,
			West:  *w.Bounds.West,
		},
	}
}

func strictDecode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

func decodeMarkers(raw []wireMarker) ([]SiteMarker, error) {
	errs := validation.Errors{}
	for i, w := range raw {
		if err := w.missing(); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if err := errs.Filter(); err != nil {
		return nil, err
	}
	markers := lo.Map(raw, func(w wireMarker, _ int) SiteMarker { return w.marker() })
	if err := ValidateMarkers(markers); err != nil {
		return nil, err
	}
	return markers, nil
}

// DecodeMarkers parses a canonical JSON marker array. Unknown fields,
// missing fields, wrongly typed fields and invalid markers are rejected.
func DecodeMarkers(data []byte) ([]SiteMarker, error) {
	var raw []wireMarker
	if err := strictDecode(data, &raw); err != nil {
		return nil, wrap("decode markers", err)
	}
	markers, err := decodeMarkers(raw)
	return markers, wrap("decode markers", err)
}

// DecodeConfig parses a canonical JSON map config.
func DecodeConfig(data []byte) (MapConfig, error) {
	var raw wireConfig
	if err := strictDecode(data, &raw); err != nil {
		return MapConfig{}, wrap("decode config", err)
	}
	if err := raw.missing(); err != nil {
		return MapConfig{}, wrap("decode config", err)
	}
	cfg := raw.config()
	if err := cfg.Validate(); err != nil {
		return MapConfig{}, wrap("decode config", err)
	}
	return cfg, nil
}

// DecodeDocument parses a canonical JSON feed document.
func DecodeDocument(data []byte) (Document, error) {
	var raw struct {
		Config  *json.RawMessage `json:"config"`
		Markers *json.RawMessage `json:"markers"`
	}
	if err := strictDecode(data, &raw); err != nil {
		return Document{}, wrap("decode document", err)
	}
	if raw.Config == nil || raw.Markers == nil {
		return Document{}, wrap("decode document", validation.Errors{
			"config":  lo.Ternary[error](raw.Config == nil, validation.ErrRequired, nil),
			"markers": lo.Ternary[error](raw.Markers == nil, validation.ErrRequired, nil),
		}.Filter())
	}
	cfg, err := DecodeConfig(*raw.Config)
	if err != nil {
		return Document{}, err
	}
	markers, err := DecodeMarkers(*raw.Markers)
	if err != nil {
		return Document{}, err
	}
	return Document{Config: cfg, Markers: markers}, nil
}

// EncodeMarkers writes markers in canonical JSON. A nil slice encodes as [].
func EncodeMarkers(markers []SiteMarker) ([]byte, error) {
	if markers == nil {
		markers = []SiteMarker{}
	}
	return json.Marshal(markers)
}

// EncodeConfig writes the config in canonical JSON.
func EncodeConfig(cfg MapConfig) ([]byte, error) {
	return json.Marshal(cfg)
}

// EncodeDocument writes a feed document in canonical JSON.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Markers == nil {
		doc.Markers = []SiteMarker{}
	}
	return json.Marshal(doc)
}
