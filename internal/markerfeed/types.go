package markerfeed

import (
	"context"
	"strings"
)

// LatLng is a point in floating point degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the box the map is allowed to pan within.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether the point lies inside the box (edges included).
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat <= b.North && p.Lat >= b.South && p.Lng <= b.East && p.Lng >= b.West
}

// MapConfig holds everything the map engine needs besides the markers.
type MapConfig struct {
	MountTargetID  string `json:"mountTargetId"`
	BaseLinkHref   string `json:"baseLinkHref"`
	InitialCenter  LatLng `json:"initialCenter"`
	InitialZoom    int    `json:"initialZoom"`
	MinZoom        int    `json:"minZoom"`
	IconField      string `json:"iconField"`
	ColorRangeName string `json:"colorRangeName"`
	Bounds         Bounds `json:"bounds"`
}

// SiteLink returns the per-site page for a site number.
func (c MapConfig) SiteLink(siteNumber string) string {
	if c.BaseLinkHref == "" {
		return siteNumber
	}
	return strings.TrimRight(c.BaseLinkHref, "/") + "/" + siteNumber
}

// SiteType discriminates what a site measures.
type SiteType string

const (
	// SiteTypeFlow marks a flow/discharge site.
	SiteTypeFlow SiteType = "W"
	// SiteTypeStage marks a water level (stage) site.
	SiteTypeStage SiteType = "S"
)

// Known reports whether t is one of the recognised discriminators.
func (t SiteType) Known() bool {
	return t == SiteTypeFlow || t == SiteTypeStage
}

// SiteMarker is a single monitoring site as shown on the map.
//
// SiteNumber is an identifier, not a number: "00412" must survive encoding.
type SiteMarker struct {
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	SiteName         string   `json:"siteName"`
	SiteNumber       string   `json:"siteNumber"`
	Value            string   `json:"value"`
	ColourIndex      int      `json:"colourIndex"`
	Total            string   `json:"total"`
	TotalColourIndex int      `json:"totalColourIndex"`
	Type             SiteType `json:"type"`
}

// Position returns the marker coordinates.
func (m SiteMarker) Position() LatLng {
	return LatLng{Lat: m.Lat, Lng: m.Lng}
}

// Engine is the map renderer a feed is handed to.
type Engine interface {
	InitMap(ctx context.Context, markers []SiteMarker, cfg MapConfig) error
}
