package ecan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// DefaultListURL is the base of the regional riverflow tables.
const DefaultListURL = "https://ecan.govt.nz/data/riverflow/RiverflowList"

// Region names one of the regional riverflow tables.
type Region string

const (
	North Region = "NORTH"
	South Region = "SOUTH"
)

// Regions lists the tables in harvest order.
var Regions = []Region{North, South}

// The tables stamp readings like "16-May 17:25", local time, no year.
var observedLayouts = []string{"2006 2-January 15:04", "2006 2-Jan 15:04"}

var auckland = mustLoadLocation("Pacific/Auckland")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// ParseObservedAt reads a table time stamp. The year is the current one in
// New Zealand at now, or the previous one when that would put the reading
// more than a day in the future (stamps from late December read in January).
func ParseObservedAt(s string, now time.Time) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	year := now.In(auckland).Year()

	var ts time.Time
	var err error
	for _, layout := range observedLayouts {
		ts, err = time.ParseInLocation(layout, fmt.Sprintf("%d %s", year, s), auckland)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid observation time %q: %w", s, err)
	}
	if ts.After(now.Add(24 * time.Hour)) {
		ts = ts.AddDate(-1, 0, 0)
	}
	return ts.UTC(), nil
}

func parseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseList reads the measurements out of a regional riverflow table. Rows
// whose site or time cannot be read are skipped.
func ParseList(r io.Reader, script string, now time.Time) ([]markerfeed.Measurement, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	result := make([]markerfeed.Measurement, 0)
	doc.Find("tr.riverflow-N, tr.riverflow-S").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		href, _ := row.Find("th a").First().Attr("href")
		code := strings.TrimSpace(href[strings.LastIndex(href, "/")+1:])
		if code == "" {
			log.WithField("row", strings.TrimSpace(row.Text())).Debug("riverflow row without site link")
			return
		}
		ts, err := ParseObservedAt(tds.Eq(0).Text(), now)
		if err != nil {
			log.WithError(err).WithField("site", code).Debug("skipping riverflow row")
			return
		}
		result = append(result, markerfeed.Measurement{
			GaugeID:   markerfeed.GaugeID{Script: script, Code: code},
			Timestamp: ts,
			Level:     parseValue(tds.Eq(1).Text()),
			Flow:      parseValue(tds.Eq(2).Text()),
		})
	})
	return result, nil
}

// FetchList retrieves one riverflow table page and parses it.
func FetchList(ctx context.Context, client *http.Client, url, script string, now time.Time) ([]markerfeed.Measurement, error) {
	resp, err := get(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParseList(resp.Body, script, now)
}

// FetchReadings harvests every regional table under baseURL.
func FetchReadings(ctx context.Context, client *http.Client, baseURL, script string, now time.Time) ([]markerfeed.Measurement, error) {
	var result []markerfeed.Measurement
	for _, region := range Regions {
		list, err := FetchList(ctx, client, strings.TrimRight(baseURL, "/")+"/"+string(region), script, now)
		if err != nil {
			return nil, fmt.Errorf("fetch %s list: %w", strings.ToLower(string(region)), err)
		}
		result = append(result, list...)
	}
	return result, nil
}
