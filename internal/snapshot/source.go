package snapshot

import (
	"context"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// Source serves the feed stored under one key.
type Source struct {
	Store *Store
	Key   string
}

// Feed implements the API's feed source.
func (s Source) Feed(ctx context.Context) (*markerfeed.Feed, error) {
	snap, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return nil, err
	}
	return snap.Feed()
}

// LatestReadings reads the snapshot's markers as measurements taken when the
// snapshot was fetched.
func (s Source) LatestReadings(ctx context.Context) ([]markerfeed.Measurement, error) {
	snap, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return nil, err
	}
	feed, err := snap.Feed()
	if err != nil {
		return nil, err
	}
	return feed.Measurements(s.Key, snap.FetchedAt), nil
}
