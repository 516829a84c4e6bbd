package markerfeed

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

// Feed is a validated map config plus its ordered markers. A feed is handed
// to an Engine exactly once.
type Feed struct {
	config  MapConfig
	markers []SiteMarker

	once     sync.Once
	rendered atomic.Bool
}

// FeedOption customises NewFeed.
type FeedOption func(*feedOptions)

type feedOptions struct {
	palettes *PaletteRegistry
}

// WithPalettes checks colour indices against the registry.
func WithPalettes(r *PaletteRegistry) FeedOption {
	return func(o *feedOptions) {
		o.palettes = r
	}
}

// NewFeed validates cfg and markers and returns a feed holding copies of both.
// Site names are stored in NFC, the form every decoder produces.
func NewFeed(cfg MapConfig, markers []SiteMarker, opts ...FeedOption) (*Feed, error) {
	var o feedOptions
	for _, opt := range opts {
		opt(&o)
	}
	markers = cloneMarkers(markers)
	for i := range markers {
		markers[i].SiteName = norm.NFC.String(markers[i].SiteName)
	}
	if err := ValidateFeed(cfg, markers, o.palettes); err != nil {
		return nil, wrap("new feed", err)
	}
	return &Feed{config: cfg, markers: markers}, nil
}

// FromDocument builds a feed from a decoded document.
func FromDocument(doc Document, opts ...FeedOption) (*Feed, error) {
	return NewFeed(doc.Config, doc.Markers, opts...)
}

// Config returns the map config.
func (f *Feed) Config() MapConfig {
	return f.config
}

// Markers returns a copy of the markers in input order.
func (f *Feed) Markers() []SiteMarker {
	return cloneMarkers(f.markers)
}

// Len returns the number of markers.
func (f *Feed) Len() int {
	return len(f.markers)
}

// Document returns the canonical document for the feed.
func (f *Feed) Document() Document {
	return Document{Config: f.config, Markers: f.Markers()}
}

// Render hands the markers and config to engine. Only the first call reaches
// the engine; later calls return ErrAlreadyRendered.
func (f *Feed) Render(ctx context.Context, engine Engine) error {
	err := ErrAlreadyRendered
	f.once.Do(func() {
		f.rendered.Store(true)
		err = engine.InitMap(ctx, f.Markers(), f.config)
	})
	return err
}

// Rendered reports whether Render has been called.
func (f *Feed) Rendered() bool {
	return f.rendered.Load()
}

func cloneMarkers(markers []SiteMarker) []SiteMarker {
	out := make([]SiteMarker, len(markers))
	copy(out, markers)
	return out
}
