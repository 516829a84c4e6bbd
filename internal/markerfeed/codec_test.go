package markerfeed

import (
	"encoding/json"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_RoundTrip(t *testing.T) {
	doc := Canterbury().Document()

	data, err := EncodeDocument(doc)
	require.NoError(t, err)

	decoded, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestEncodeMarkers_SiteNumberStaysString(t *testing.T) {
	data, err := EncodeMarkers(CanterburyMarkers()[:1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"siteNumber":"62105"`)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.IsType(t, "", generic[0]["siteNumber"])
}

func TestDecodeMarkers_KeepsLeadingZeros(t *testing.T) {
	markers := CanterburyMarkers()[:1]
	markers[0].SiteNumber = "00412"

	data, err := EncodeMarkers(markers)
	require.NoError(t, err)

	decoded, err := DecodeMarkers(data)
	require.NoError(t, err)
	assert.Equal(t, "00412", decoded[0].SiteNumber)
}

func TestDecodeMarkers_FailsFast(t *testing.T) {
	valid := `"lat":-42.45731,"lng":172.906357,"siteName":"Ashburton SH1","value":"0.201 m3/s","colourIndex":0,"total":"0.413","totalColourIndex":0,"type":"W"`
	tests := []struct {
		name  string
		input string
		field string
	}{
		{
			name:  "numeric site number",
			input: `[{` + valid + `,"siteNumber":68801}]`,
			field: "siteNumber",
		},
		{
			name:  "missing site number",
			input: `[{` + valid + `}]`,
			field: "siteNumber",
		},
		{
			name:  "unknown field",
			input: `[{` + valid + `,"siteNumber":"68801","extra":true}]`,
			field: "extra",
		},
		{
			name:  "unknown type",
			input: `[{"lat":-42.45731,"lng":172.906357,"siteName":"Ashburton SH1","siteNumber":"68801","value":"0.201 m3/s","colourIndex":0,"total":"0.413","totalColourIndex":0,"type":"X"}]`,
			field: "type",
		},
		{
			name:  "latitude out of range",
			input: `[{"lat":-142.4,"lng":172.906357,"siteName":"Ashburton SH1","siteNumber":"68801","value":"0.201 m3/s","colourIndex":0,"total":"0.413","totalColourIndex":0,"type":"W"}]`,
			field: "lat",
		},
		{
			name:  "trailing data",
			input: `[] []`,
			field: "unexpected data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMarkers([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDecodeMarkers_ReportsMissingFieldsByIndex(t *testing.T) {
	_, err := DecodeMarkers([]byte(`[{"lat":1,"lng":2}]`))
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, "0")

	inner, ok := errs["0"].(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, inner, "siteName")
	assert.Contains(t, inner, "siteNumber")
	assert.NotContains(t, inner, "lat")
}

func TestDecodeMarkers_NormalizesSiteName(t *testing.T) {
	// decomposed a + combining macron must come back precomposed
	input := `[{"lat":-43.4,"lng":172.6,"siteName":"Wa\u0304imakariri","siteNumber":"66401","value":"0.909 m","colourIndex":0,"total":"0.909","totalColourIndex":0,"type":"S"}]`

	markers, err := DecodeMarkers([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "W\u0101imakariri", markers[0].SiteName)
}

func TestDocument_RoundTripDecomposedSiteName(t *testing.T) {
	markers := CanterburyMarkers()
	markers[1].SiteName = "Wa\u0304imakariri at Old Highway Bridge"
	feed, err := NewFeed(CanterburyConfig(), markers)
	require.NoError(t, err)

	data, err := EncodeDocument(feed.Document())
	require.NoError(t, err)
	doc, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, feed.Document(), doc)

	back, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, feed.Markers(), back.Markers())
}

func TestDecodeConfig(t *testing.T) {
	data, err := EncodeConfig(CanterburyConfig())
	require.NoError(t, err)

	cfg, err := DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, CanterburyConfig(), cfg)

	_, err = DecodeConfig([]byte(`{"mountTargetId":"ALLMap","bounds":{"north":1}}`))
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "initialZoom")
	assert.Contains(t, errs, "bounds")
}

func TestDecodeDocument_RequiresBothParts(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"markers":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestEncodeMarkers_NilIsEmptyArray(t *testing.T) {
	data, err := EncodeMarkers(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
