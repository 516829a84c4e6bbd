package http

import (
	"context"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// FeedSource provides the feed served by the API.
type FeedSource interface {
	Feed(ctx context.Context) (*markerfeed.Feed, error)
}

// ReadingSource is implemented by sources that know when their readings were
// taken. Other sources have their marker values read at request time.
type ReadingSource interface {
	LatestReadings(ctx context.Context) ([]markerfeed.Measurement, error)
}

// StaticSource serves a fixed feed.
type StaticSource struct {
	F *markerfeed.Feed
}

// Feed implements FeedSource.
func (s StaticSource) Feed(context.Context) (*markerfeed.Feed, error) {
	return s.F, nil
}
