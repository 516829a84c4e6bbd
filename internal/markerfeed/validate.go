package markerfeed

import (
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func latitude(value any) error {
	v, _ := value.(float64)
	if math.IsNaN(v) || v < -90 || v > 90 {
		return validation.NewError("markerfeed.latitude_out_of_range", "must be between -90 and 90")
	}
	return nil
}

func longitude(value any) error {
	v, _ := value.(float64)
	if math.IsNaN(v) || v < -180 || v > 180 {
		return validation.NewError("markerfeed.longitude_out_of_range", "must be between -180 and 180")
	}
	return nil
}

func greaterThan(other float64, name string) validation.RuleFunc {
	return func(value any) error {
		v, _ := value.(float64)
		if v <= other {
			return validation.NewError("markerfeed.bounds_inverted", "must be greater than "+name)
		}
		return nil
	}
}

func nonNegative(value any) error {
	v, _ := value.(int)
	if v < 0 {
		return validation.NewError("markerfeed.negative", "must be no less than 0")
	}
	return nil
}

func notBlank(value any) error {
	v, _ := value.(string)
	if strings.TrimSpace(v) == "" {
		return validation.NewError("markerfeed.blank", "cannot be blank")
	}
	return nil
}

// Validate implements validation.Validatable.
func (p LatLng) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Lat, validation.By(latitude)),
		validation.Field(&p.Lng, validation.By(longitude)),
	)
}

// Validate checks coordinate ranges and that the box is not inverted.
func (b Bounds) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.North, validation.By(latitude), validation.By(greaterThan(b.South, "south"))),
		validation.Field(&b.South, validation.By(latitude)),
		validation.Field(&b.East, validation.By(longitude), validation.By(greaterThan(b.West, "west"))),
		validation.Field(&b.West, validation.By(longitude)),
	)
}

// Validate checks zoom ordering, bounds and that the initial center sits
// inside the bounds.
func (c MapConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MountTargetID, validation.By(notBlank)),
		validation.Field(&c.InitialZoom, validation.By(nonNegative)),
		validation.Field(&c.MinZoom, validation.By(nonNegative), validation.By(func(value any) error {
			if v, _ := value.(int); v > c.InitialZoom {
				return validation.NewError("markerfeed.min_zoom_exceeds_initial", "must not exceed initialZoom")
			}
			return nil
		})),
		validation.Field(&c.Bounds),
		validation.Field(&c.InitialCenter, validation.By(func(value any) error {
			p, _ := value.(LatLng)
			if c.Bounds.Validate() == nil && !c.Bounds.Contains(p) {
				return validation.NewError("markerfeed.center_outside_bounds", "must lie within bounds")
			}
			return nil
		})),
	)
}

// Validate implements validation.Validatable.
func (m SiteMarker) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Lat, validation.By(latitude)),
		validation.Field(&m.Lng, validation.By(longitude)),
		validation.Field(&m.SiteName, validation.By(notBlank)),
		validation.Field(&m.SiteNumber, validation.By(notBlank)),
		validation.Field(&m.ColourIndex, validation.By(nonNegative)),
		validation.Field(&m.TotalColourIndex, validation.By(nonNegative)),
		validation.Field(&m.Type, validation.Required, validation.In(SiteTypeFlow, SiteTypeStage)),
	)
}

// ValidateMarkers validates every marker. Errors are keyed by list index.
func ValidateMarkers(markers []SiteMarker) error {
	errs := validation.Errors{}
	for i, m := range markers {
		if err := m.Validate(); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	return errs.Filter()
}

// ValidateColours checks that both colour indices of every marker fall
// inside the palette.
func ValidateColours(markers []SiteMarker, palette Palette) error {
	errs := validation.Errors{}
	n := palette.Len()
	for i, m := range markers {
		switch {
		case m.ColourIndex >= n:
			errs[strconv.Itoa(i)] = validation.Errors{
				"colourIndex": validation.NewError("markerfeed.colour_out_of_palette", "must be a valid index into "+palette.Name),
			}
		case m.TotalColourIndex >= n:
			errs[strconv.Itoa(i)] = validation.Errors{
				"totalColourIndex": validation.NewError("markerfeed.colour_out_of_palette", "must be a valid index into "+palette.Name),
			}
		}
	}
	return errs.Filter()
}

// ValidateFeed validates the config, the markers and, when the config's
// colour range is registered, the colour indices.
func ValidateFeed(cfg MapConfig, markers []SiteMarker, palettes *PaletteRegistry) error {
	errs := validation.Errors{
		"config":  cfg.Validate(),
		"markers": ValidateMarkers(markers),
	}
	if palette, ok := palettes.Lookup(cfg.ColorRangeName); ok && errs["markers"] == nil {
		errs["markers"] = ValidateColours(markers, palette)
	}
	return errs.Filter()
}
