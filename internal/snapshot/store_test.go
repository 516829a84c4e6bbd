package snapshot

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	fetchedAt := time.Date(2020, time.May, 16, 5, 25, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), fetchedAt))

	snap, err := s.Get(ctx, "NZCAN")
	require.NoError(t, err)
	assert.Equal(t, "nzcan", snap.Key)
	assert.True(t, fetchedAt.Equal(snap.FetchedAt))
	assert.Equal(t, markerfeed.Canterbury().Document(), snap.Document)

	feed, err := snap.Feed()
	require.NoError(t, err)
	assert.Equal(t, 3, feed.Len())
}

func TestStore_GetMissing(t *testing.T) {
	s := setupStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutReplaces(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), time.Now()))
	single, err := markerfeed.NewFeed(markerfeed.CanterburyConfig(), markerfeed.CanterburyMarkers()[:1])
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "nzcan", single, time.Now()))

	snap, err := s.Get(ctx, "nzcan")
	require.NoError(t, err)
	assert.Len(t, snap.Document.Markers, 1)
}

func TestStore_KeysAndDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), time.Now()))
	require.NoError(t, s.Put(ctx, "nzstl", markerfeed.Canterbury(), time.Now()))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nzcan", "nzstl"}, keys)

	require.NoError(t, s.Delete(ctx, "nzcan"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nzstl"}, keys)
}

func TestSource_Feed(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	src := Source{Store: s, Key: "nzcan"}

	_, err := src.Feed(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), time.Now()))
	feed, err := src.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, markerfeed.CanterburyMarkers(), feed.Markers())
}

func TestStore_CancelledContext(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), time.Now()), context.Canceled)
	_, err := s.Get(ctx, "nzcan")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_LatestReadings(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	fetchedAt := time.Date(2020, time.May, 16, 5, 25, 0, 0, time.UTC)
	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), fetchedAt))

	readings, err := Source{Store: s, Key: "nzcan"}.LatestReadings(ctx)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, "62105", readings[0].Code)
	assert.True(t, fetchedAt.Equal(readings[0].Timestamp))
	require.NotNil(t, readings[0].Flow)
	assert.InDelta(t, 7.592, *readings[0].Flow, 1e-9)
	assert.Nil(t, readings[1].Flow)
	require.NotNil(t, readings[1].Level)
}

func TestStoreOptions_LogThroughLogrus(t *testing.T) {
	opts := storeOptions(t.TempDir())

	entry, ok := opts.Logger.(*log.Entry)
	require.True(t, ok, "badger logger is %T", opts.Logger)
	assert.Equal(t, "badger", entry.Data["component"])
	assert.Same(t, log.StandardLogger(), entry.Logger)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "nzcan", markerfeed.Canterbury(), time.Now()))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	snap, err := s.Get(ctx, "nzcan")
	require.NoError(t, err)
	assert.Len(t, snap.Document.Markers, 3)
}
