package markerfeed

import (
	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// upstreamMarker is a marker as the riverflow map page embeds it.
type upstreamMarker struct {
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	SiteName    string   `json:"SiteName"`
	SiteNo      string   `json:"SiteNo"`
	Value       string   `json:"Value"`
	Colour      int      `json:"Colour"`
	Total       string   `json:"Total"`
	TotalColour int      `json:"TotalColour"`
	Type        SiteType `json:"Type"`
}

// upstreamOptions is the options object the page hands to initMap.
type upstreamOptions struct {
	InitMap    string `json:"InitMap"`
	BaseHref   string `json:"BaseHref"`
	InitPos    LatLng `json:"initPos"`
	InitZoom   int    `json:"initZoom"`
	MinZoom    int    `json:"minZoom"`
	IconF      string `json:"iconF"`
	ColourType string `json:"ColourType"`
	Bounds     Bounds `json:"bounds"`
}

func fromUpstreamMarker(u upstreamMarker, _ int) SiteMarker {
	return SiteMarker{
		Lat:              u.Lat,
		Lng:              u.Lng,
		SiteName:         norm.NFC.String(u.SiteName),
		SiteNumber:       u.SiteNo,
		Value:            u.Value,
		ColourIndex:      u.Colour,
		Total:            u.Total,
		TotalColourIndex: u.TotalColour,
		Type:             u.Type,
	}
}

func toUpstreamMarker(m SiteMarker, _ int) upstreamMarker {
	return upstreamMarker{
		Lat:         m.Lat,
		Lng:         m.Lng,
		SiteName:    m.SiteName,
		SiteNo:      m.SiteNumber,
		Value:       m.Value,
		Colour:      m.ColourIndex,
		Total:       m.Total,
		TotalColour: m.TotalColourIndex,
		Type:        m.Type,
	}
}

func fromUpstreamMarkers(list []upstreamMarker) []SiteMarker {
	return lo.Map(list, fromUpstreamMarker)
}

func toUpstreamMarkers(list []SiteMarker) []upstreamMarker {
	return lo.Map(list, toUpstreamMarker)
}

func (o upstreamOptions) config() MapConfig {
	return MapConfig{
		MountTargetID:  o.InitMap,
		BaseLinkHref:   o.BaseHref,
		InitialCenter:  o.InitPos,
		InitialZoom:    o.InitZoom,
		MinZoom:        o.MinZoom,
		IconField:      o.IconF,
		ColorRangeName: o.ColourType,
		Bounds:         o.Bounds,
	}
}

func toUpstreamOptions(c MapConfig) upstreamOptions {
	return upstreamOptions{
		InitMap:    c.MountTargetID,
		BaseHref:   c.BaseLinkHref,
		InitPos:    c.InitialCenter,
		InitZoom:   c.InitialZoom,
		MinZoom:    c.MinZoom,
		IconF:      c.IconField,
		ColourType: c.ColorRangeName,
		Bounds:     c.Bounds,
	}
}
