package db

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

func TestSiteMarker(t *testing.T) {
	ts := time.Date(2020, time.May, 16, 5, 25, 0, 0, time.UTC)
	site := Site{
		ID:         "nzcan_62105",
		Script:     "nzcan",
		SiteNumber: "62105",
		Name:       "Clarence River at Jollies",
		Lat:        -42.45731,
		Lon:        172.94152,
		Type:       "W",
		FlowUnit:   lo.ToPtr("m3/s"),
		Metadata:   []byte(`{"source":"map","colourIndex":2,"total":"","totalColourIndex":0,"kind":"flow"}`),
		Flow:       lo.ToPtr(7.592),
		TS:         &ts,
	}

	m, err := site.Marker()
	require.NoError(t, err)
	assert.Equal(t, "7.592 m3/s", m.Value)
	assert.Equal(t, 2, m.ColourIndex)
	assert.Equal(t, markerfeed.SiteTypeFlow, m.Type)
	assert.Equal(t, markerfeed.KindFlow, m.Kind())
	assert.NoError(t, m.Validate())
}

func TestSiteMarkerStageWithoutUnit(t *testing.T) {
	site := Site{
		SiteNumber: "62107",
		Name:       "Acheron River at Clarence",
		Lat:        -42.39,
		Lon:        173.05,
		Type:       "S",
		Level:      lo.ToPtr(0.909),
	}

	m, err := site.Marker()
	require.NoError(t, err)
	assert.Equal(t, "0.909 m", m.Value)
	assert.Equal(t, 0, m.ColourIndex)
}

func TestSiteMarkerNoReading(t *testing.T) {
	site := Site{SiteNumber: "68801", Name: "Waiau", Type: "W"}

	m, err := site.Marker()
	require.NoError(t, err)
	assert.Empty(t, m.Value)
	assert.Empty(t, m.Total)
}

func TestSiteMarkerCorruptMetadata(t *testing.T) {
	tests := map[string]string{
		"not json":          `not json`,
		"wrong field types": `{"colourIndex":"two","total":0.4}`,
	}
	for name, metadata := range tests {
		t.Run(name, func(t *testing.T) {
			site := Site{ID: "nzcan_68801", SiteNumber: "68801", Name: "Waiau", Type: "W", Metadata: []byte(metadata)}

			_, err := site.Marker()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "nzcan_68801")
		})
	}
}
