package markerfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelaxObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		vars map[string]string
		want string
	}{
		{
			name: "plain json",
			in:   `{"a": 1, "b": [true, null]}`,
			want: `{"a":1,"b":[true,null]}`,
		},
		{
			name: "unquoted keys and single quotes",
			in:   `{InitMap : 'ALLMap', iconF: 'river\'s flow'}`,
			want: `{"InitMap":"ALLMap","iconF":"river's flow"}`,
		},
		{
			name: "comments and trailing commas",
			in: `{
				a: 1, // one
				/* b: 2, */
				c: [1, 2,],
			}`,
			want: `{"a":1,"c":[1,2]}`,
		},
		{
			name: "identifiers",
			in:   `{BaseHref: LinkTo, other: window.Base, u: undefined}`,
			vars: map[string]string{"LinkTo": "https://example.org"},
			want: `{"BaseHref":"https://example.org","other":"window.Base","u":null}`,
		},
		{
			name: "numbers",
			in:   `{a: -41.863194, b: +5, c: .5, d: 1e3, e: 0x1F}`,
			want: `{"a":-41.863194,"b":5,"c":0.5,"d":1000,"e":31}`,
		},
		{
			name: "slash inside string is not a comment",
			in:   `{url: 'https://ecan.govt.nz/data'}`,
			want: `{"url":"https://ecan.govt.nz/data"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := relaxObject(tt.in, tt.vars)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestRelaxObject_StopsAtClosingBrace(t *testing.T) {
	src := `{a: 1}; var markers = [];`
	got, n, err := relaxObject(src, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
	assert.Equal(t, "; var markers = [];", src[n:])
}

func TestRelaxObject_Errors(t *testing.T) {
	for _, in := range []string{
		`a: 1`,
		`{a: 1`,
		`{a 1}`,
		`{a: 'open}`,
		`{a: 1 b: 2}`,
		`{a: #}`,
	} {
		t.Run(in, func(t *testing.T) {
			_, _, err := relaxObject(in, nil)
			assert.Error(t, err)
		})
	}
}
