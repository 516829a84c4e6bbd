package ecan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile("../markerfeed/testdata/all.js")
	require.NoError(t, err)
	north, err := os.ReadFile("testdata/north.html")
	require.NoError(t, err)
	south, err := os.ReadFile("testdata/south.html")
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			http.Error(w, "full page not served in tests", http.StatusNotAcceptable)
			return
		}
		switch r.URL.Path {
		case "/RiverflowGeo/ALL":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(page)
		case "/RiverflowList/NORTH":
			_, _ = w.Write(north)
		case "/RiverflowList/SOUTH":
			_, _ = w.Write(south)
		case "/RiverflowGeo/EMPTY", "/BrokenList/NORTH":
			_, _ = w.Write([]byte("<p>maintenance</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchFeed(t *testing.T) {
	ts := setupTestServer(t)

	feed, err := FetchFeed(context.Background(), ts.Client(), ts.URL+"/RiverflowGeo/ALL",
		markerfeed.WithVar("LinkTo", markerfeed.CanterburyLinkTo))
	require.NoError(t, err)
	assert.Equal(t, markerfeed.CanterburyConfig(), feed.Config())
	assert.Equal(t, markerfeed.CanterburyMarkers(), feed.Markers())
}

func TestFetchFeed_Status(t *testing.T) {
	ts := setupTestServer(t)

	_, err := FetchFeed(context.Background(), ts.Client(), ts.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchFeed_NoMarkers(t *testing.T) {
	ts := setupTestServer(t)

	_, err := FetchFeed(context.Background(), ts.Client(), ts.URL+"/RiverflowGeo/EMPTY")
	assert.ErrorIs(t, err, markerfeed.ErrMarkersNotFound)
}

func TestFetchFeed_CancelledContext(t *testing.T) {
	ts := setupTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchFeed(ctx, ts.Client(), ts.URL+"/RiverflowGeo/ALL")
	assert.ErrorIs(t, err, context.Canceled)
}
