package markerfeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteMarker_Kind(t *testing.T) {
	flow := SiteMarker{Type: SiteTypeFlow, Value: "7.592 m3/s"}
	stage := SiteMarker{Type: SiteTypeStage, Value: "0.909 m"}

	assert.Equal(t, KindFlow, flow.Kind())
	assert.Equal(t, KindStage, stage.Kind())
	assert.Equal(t, KindFlow, flow.UnitKind())
	assert.Equal(t, KindStage, stage.UnitKind())
}

func TestSiteMarker_KindFallsBackToUnit(t *testing.T) {
	assert.Equal(t, KindFlow, SiteMarker{Value: "12 cumecs"}.Kind())
	assert.Equal(t, KindStage, SiteMarker{Value: "1.2 m"}.Kind())
	assert.Equal(t, KindUnknown, SiteMarker{Value: "3 degC"}.Kind())
	assert.Equal(t, KindUnknown, SiteMarker{Value: "n/a"}.Kind())
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		in   string
		want Reading
	}{
		{in: "7.592 m3/s", want: Reading{Value: 7.592, Unit: "m3/s"}},
		{in: `0.201 m3\/s`, want: Reading{Value: 0.201, Unit: "m3/s"}},
		{in: "0.909 m", want: Reading{Value: 0.909, Unit: "m"}},
		{in: " 0.215 ", want: Reading{Value: 0.215}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReading(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseReading("")
	assert.Error(t, err)
	_, err = ParseReading("high m")
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "flow", KindFlow.String())
	assert.Equal(t, "stage", KindStage.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestFeed_Gauges(t *testing.T) {
	expected := []Gauge{
		{
			GaugeID:  GaugeID{Script: "nzcan", Code: "62105"},
			Name:     "Waiau Toa~Clarence River at Jollies (NIWA)",
			URL:      "https://ecan.govt.nz/data/riverflow/sitedetails/62105",
			FlowUnit: "m3/s",
			Location: &Location{Latitude: -42.45731, Longitude: 172.90635},
		},
		{
			GaugeID:   GaugeID{Script: "nzcan", Code: "62107"},
			Name:      "Waiau Toa~Clarence River at Clarence Valley Road Bridge",
			URL:       "https://ecan.govt.nz/data/riverflow/sitedetails/62107",
			LevelUnit: "m",
			Location:  &Location{Latitude: -42.11062, Longitude: 173.84193},
		},
		{
			GaugeID:  GaugeID{Script: "nzcan", Code: "68801"},
			Name:     "Ashburton SH1",
			URL:      "https://ecan.govt.nz/data/riverflow/sitedetails/68801",
			FlowUnit: "m3/s",
			Location: &Location{Latitude: -42.36892, Longitude: 173.67984},
		},
	}
	assert.Equal(t, expected, Canterbury().Gauges("nzcan"))
}

func TestFeed_Measurements(t *testing.T) {
	ts := time.Date(2020, time.May, 16, 5, 25, 0, 0, time.UTC)
	flow := func(v float64) *float64 { return &v }

	expected := []Measurement{
		{GaugeID: GaugeID{Script: "nzcan", Code: "62105"}, Timestamp: ts, Flow: flow(7.592)},
		{GaugeID: GaugeID{Script: "nzcan", Code: "62107"}, Timestamp: ts, Level: flow(0.909)},
		{GaugeID: GaugeID{Script: "nzcan", Code: "68801"}, Timestamp: ts, Flow: flow(0.201)},
	}
	assert.Equal(t, expected, Canterbury().Measurements("nzcan", ts))
}

func TestFeed_MeasurementsSkipsUnreadableValues(t *testing.T) {
	markers := CanterburyMarkers()
	markers[1].Value = "offline"
	feed, err := NewFeed(CanterburyConfig(), markers)
	require.NoError(t, err)

	got := feed.Measurements("nzcan", time.Now())
	require.Len(t, got, 2)
	assert.Equal(t, "68801", got[1].Code)
}

func TestFillUnits(t *testing.T) {
	v := func(v float64) *float64 { return &v }
	gauges := Canterbury().Gauges("nzcan")
	readings := []Measurement{
		{GaugeID: GaugeID{Script: "nzcan", Code: "62105"}, Level: v(0.214), Flow: v(7.556)},
		{GaugeID: GaugeID{Script: "nzcan", Code: "62107"}, Level: v(0.904)},
		{GaugeID: GaugeID{Script: "other", Code: "68801"}, Level: v(1.589)},
	}

	got := FillUnits(gauges, readings)
	require.Len(t, got, 3)
	assert.Equal(t, "m3/s", got[0].FlowUnit)
	assert.Equal(t, "m", got[0].LevelUnit)
	assert.Equal(t, "", got[1].FlowUnit)
	assert.Equal(t, "m", got[1].LevelUnit)
	assert.Equal(t, "", got[2].LevelUnit, "readings of another script do not apply")
	assert.Equal(t, "", gauges[0].LevelUnit, "input is not modified")
}

func TestMapConfig_SiteLink(t *testing.T) {
	cfg := MapConfig{BaseLinkHref: "https://example.org/sites/"}
	assert.Equal(t, "https://example.org/sites/0042", cfg.SiteLink("0042"))
	assert.Equal(t, "0042", MapConfig{}.SiteLink("0042"))
}
