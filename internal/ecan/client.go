package ecan

import (
	"context"
	"fmt"
	"net/http"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// get requests url the way the riverflow pages expect: they only answer
// with the page fragment to XHR-looking requests.
func get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp, nil
}

// FetchFeed retrieves the riverflow map page and extracts its marker feed.
func FetchFeed(ctx context.Context, client *http.Client, url string, opts ...markerfeed.ExtractOption) (*markerfeed.Feed, error) {
	resp, err := get(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := markerfeed.Extract(resp.Body, opts...)
	if err != nil {
		return nil, fmt.Errorf("extract feed: %w", err)
	}

	return feed, nil
}
