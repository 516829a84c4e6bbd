package markerfeed

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markersStartRe = regexp.MustCompile(`\bmarkers\s*=\s*\[`)
	optionsStartRe = regexp.MustCompile(`\boptions\s*=\s*\{`)
	initMapCallRe  = regexp.MustCompile(`\binitMap\s*\(\s*markers\s*,\s*options\s*\)`)
)

// ExtractOption customises Extract.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	vars     map[string]string
	palettes *PaletteRegistry
}

// WithVar resolves a bare identifier used inside the options literal, such
// as the page global holding the link base.
func WithVar(name, value string) ExtractOption {
	return func(o *extractOptions) {
		if o.vars == nil {
			o.vars = make(map[string]string)
		}
		o.vars[name] = value
	}
}

// WithExtractPalettes validates colour indices of the extracted feed.
func WithExtractPalettes(r *PaletteRegistry) ExtractOption {
	return func(o *extractOptions) {
		o.palettes = r
	}
}

// Snippet is the raw material found in a map page before validation.
type Snippet struct {
	MountID string
	Script  string
}

// FindSnippet locates the script declaring the markers and the id of the
// element the map mounts into. Input that is not HTML is treated as a bare
// script.
func FindSnippet(data []byte) (Snippet, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Snippet{}, err
	}
	var snip Snippet
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if markersStartRe.MatchString(text) {
			snip.Script = text
			return false
		}
		return true
	})
	if snip.Script == "" {
		if !markersStartRe.Match(data) {
			return Snippet{}, ErrMarkersNotFound
		}
		snip.Script = string(data)
	}
	if id, ok := doc.Find("[id]").First().Attr("id"); ok {
		snip.MountID = id
	}
	return snip, nil
}

func extractMarkers(script string) ([]SiteMarker, error) {
	loc := markersStartRe.FindStringIndex(script)
	if loc == nil {
		return nil, ErrMarkersNotFound
	}
	rest := script[loc[1]-1:]
	if !initMapCallRe.MatchString(rest) {
		return nil, ErrMarkersEndNotFound
	}
	var list []upstreamMarker
	if err := json.NewDecoder(strings.NewReader(rest)).Decode(&list); err != nil {
		return nil, err
	}
	return fromUpstreamMarkers(list), nil
}

func extractOptionsLiteral(script string, vars map[string]string) (upstreamOptions, error) {
	loc := optionsStartRe.FindStringIndex(script)
	if loc == nil {
		return upstreamOptions{}, ErrOptionsNotFound
	}
	raw, _, err := relaxObject(script[loc[1]-1:], vars)
	if err != nil {
		return upstreamOptions{}, err
	}
	var opts upstreamOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return upstreamOptions{}, err
	}
	return opts, nil
}

// Extract reads a map page (or the bare script of one) and rebuilds the feed
// it would hand to initMap. The result is validated like any other feed.
func Extract(r io.Reader, opts ...ExtractOption) (*Feed, error) {
	var o extractOptions
	for _, opt := range opts {
		opt(&o)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap("extract", err)
	}
	snip, err := FindSnippet(data)
	if err != nil {
		return nil, wrap("extract", err)
	}
	markers, err := extractMarkers(snip.Script)
	if err != nil {
		return nil, wrap("extract markers", err)
	}
	options, err := extractOptionsLiteral(snip.Script, o.vars)
	if err != nil {
		return nil, wrap("extract options", err)
	}
	cfg := options.config()
	if cfg.MountTargetID == "" {
		cfg.MountTargetID = snip.MountID
	}
	if cfg.MountTargetID == "" {
		return nil, wrap("extract", ErrMountNotFound)
	}
	return NewFeed(cfg, markers, WithPalettes(o.palettes))
}

// ExtractMarkers only pulls the marker list out of a page. Pages that do
// not carry usable options still yield their markers this way.
func ExtractMarkers(r io.Reader) ([]SiteMarker, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap("extract markers", err)
	}
	snip, err := FindSnippet(data)
	if err != nil {
		return nil, wrap("extract markers", err)
	}
	markers, err := extractMarkers(snip.Script)
	if err != nil {
		return nil, wrap("extract markers", err)
	}
	if err := ValidateMarkers(markers); err != nil {
		return nil, wrap("extract markers", err)
	}
	return markers, nil
}
