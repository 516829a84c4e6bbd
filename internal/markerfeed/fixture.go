package markerfeed

// CanterburyLinkTo is the site details page the Environment Canterbury map
// links each marker to.
const CanterburyLinkTo = "https://ecan.govt.nz/data/riverflow/sitedetails"

// CanterburyConfig returns the map config of the Environment Canterbury
// riverflow map.
func CanterburyConfig() MapConfig {
	return MapConfig{
		MountTargetID:  "ALLMap",
		BaseLinkHref:   CanterburyLinkTo,
		InitialCenter:  LatLng{Lat: -43.5246182, Lng: 172.1109338},
		InitialZoom:    9,
		MinZoom:        6,
		IconField:      "riverflow",
		ColorRangeName: "riverflowColourRange",
		Bounds: Bounds{
			North: -41.863194,
			South: -45.078209,
			East:  174.284905,
			West:  169.414539,
		},
	}
}

// CanterburyMarkers returns the three sites published with the map.
func CanterburyMarkers() []SiteMarker {
	return []SiteMarker{
		{
			Lat:              -42.45731,
			Lng:              172.906357,
			SiteName:         "Waiau Toa~Clarence River at Jollies (NIWA)",
			SiteNumber:       "62105",
			Value:            "7.592 m3/s",
			ColourIndex:      0,
			Total:            "0.215",
			TotalColourIndex: 0,
			Type:             SiteTypeFlow,
		},
		{
			Lat:              -42.1106262,
			Lng:              173.841934,
			SiteName:         "Waiau Toa~Clarence River at Clarence Valley Road Bridge",
			SiteNumber:       "62107",
			Value:            "0.909 m",
			ColourIndex:      0,
			Total:            "0.909",
			TotalColourIndex: 0,
			Type:             SiteTypeStage,
		},
		{
			Lat:              -42.368927,
			Lng:              173.67984,
			SiteName:         "Ashburton SH1",
			SiteNumber:       "68801",
			Value:            "0.201 m3/s",
			ColourIndex:      0,
			Total:            "0.413",
			TotalColourIndex: 0,
			Type:             SiteTypeFlow,
		},
	}
}

// Canterbury returns the compiled-in feed. It panics only if the literals
// above stop validating.
func Canterbury() *Feed {
	f, err := NewFeed(CanterburyConfig(), CanterburyMarkers())
	if err != nil {
		panic(err)
	}
	return f
}
