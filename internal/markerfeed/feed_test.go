package markerfeed

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEngine struct {
	calls   int
	markers []SiteMarker
	config  MapConfig
	err     error
}

func (e *recordingEngine) InitMap(_ context.Context, markers []SiteMarker, cfg MapConfig) error {
	e.calls++
	e.markers = markers
	e.config = cfg
	return e.err
}

func TestFeed_RenderInvokesEngineOnceInOrder(t *testing.T) {
	feed := Canterbury()
	engine := &recordingEngine{}

	require.NoError(t, feed.Render(context.Background(), engine))
	assert.True(t, feed.Rendered())
	assert.Equal(t, 1, engine.calls)
	require.Len(t, engine.markers, 3)
	assert.Equal(t, []string{"62105", "62107", "68801"}, []string{
		engine.markers[0].SiteNumber,
		engine.markers[1].SiteNumber,
		engine.markers[2].SiteNumber,
	})
	assert.Equal(t, CanterburyConfig(), engine.config)

	err := feed.Render(context.Background(), engine)
	assert.ErrorIs(t, err, ErrAlreadyRendered)
	assert.Equal(t, 1, engine.calls)
}

func TestFeed_RenderReturnsEngineError(t *testing.T) {
	boom := errors.New("boom")
	engine := &recordingEngine{err: boom}

	err := Canterbury().Render(context.Background(), engine)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, engine.calls)
}

func TestNewFeed_CopiesInput(t *testing.T) {
	markers := CanterburyMarkers()
	feed, err := NewFeed(CanterburyConfig(), markers)
	require.NoError(t, err)

	markers[0].SiteName = "changed"
	assert.Equal(t, "Waiau Toa~Clarence River at Jollies (NIWA)", feed.Markers()[0].SiteName)

	out := feed.Markers()
	out[1].SiteNumber = "00000"
	assert.Equal(t, "62107", feed.Markers()[1].SiteNumber)
}

func TestNewFeed_RejectsInvalidInput(t *testing.T) {
	cfg := CanterburyConfig()
	cfg.MinZoom = 12

	_, err := NewFeed(cfg, CanterburyMarkers())
	var fe *FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "new feed", fe.Op)
	assert.Contains(t, err.Error(), "minZoom")
}

func TestNewFeed_RejectsNaNCoordinate(t *testing.T) {
	markers := CanterburyMarkers()
	markers[0].Lat = math.NaN()

	_, err := NewFeed(CanterburyConfig(), markers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat")
}

func TestNewFeed_StoresSiteNamesInNFC(t *testing.T) {
	markers := CanterburyMarkers()
	markers[0].SiteName = "Wa\u0304imakariri"

	feed, err := NewFeed(CanterburyConfig(), markers)
	require.NoError(t, err)
	assert.Equal(t, "W\u0101imakariri", feed.Markers()[0].SiteName)
	assert.Equal(t, "Wa\u0304imakariri", markers[0].SiteName, "input must not be modified")
}

func TestNewFeed_EmptyMarkers(t *testing.T) {
	feed, err := NewFeed(CanterburyConfig(), nil)
	require.NoError(t, err)

	engine := &recordingEngine{}
	require.NoError(t, feed.Render(context.Background(), engine))
	assert.Equal(t, 1, engine.calls)
	assert.Empty(t, engine.markers)
}

func TestNewFeed_WithPalettes(t *testing.T) {
	palettes := NewPaletteRegistry(Palette{Name: "riverflowColourRange", Colours: []string{"#3388ff"}})
	markers := CanterburyMarkers()

	_, err := NewFeed(CanterburyConfig(), markers, WithPalettes(palettes))
	require.NoError(t, err)

	markers[2].TotalColourIndex = 1
	_, err = NewFeed(CanterburyConfig(), markers, WithPalettes(palettes))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totalColourIndex")
}
