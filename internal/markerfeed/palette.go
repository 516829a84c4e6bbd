package markerfeed

import (
	"strings"
	"sync"
)

// Palette is an ordered set of display colours. Colour indices on markers
// point into Colours.
type Palette struct {
	Name    string   `json:"name"`
	Colours []string `json:"colours"`
}

// Len returns the number of colour buckets.
func (p Palette) Len() int {
	return len(p.Colours)
}

// PaletteRegistry resolves a colorRangeName to a Palette. Names compare
// case-insensitively.
type PaletteRegistry struct {
	mu       sync.RWMutex
	palettes map[string]Palette
}

// NewPaletteRegistry returns a registry preloaded with palettes.
func NewPaletteRegistry(palettes ...Palette) *PaletteRegistry {
	r := &PaletteRegistry{palettes: make(map[string]Palette, len(palettes))}
	for _, p := range palettes {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a palette.
func (r *PaletteRegistry) Register(p Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.palettes == nil {
		r.palettes = make(map[string]Palette)
	}
	colours := make([]string, len(p.Colours))
	copy(colours, p.Colours)
	r.palettes[strings.ToLower(p.Name)] = Palette{Name: p.Name, Colours: colours}
}

// Lookup returns the palette registered under name.
func (r *PaletteRegistry) Lookup(name string) (Palette, bool) {
	if r == nil {
		return Palette{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.palettes[strings.ToLower(name)]
	return p, ok
}
