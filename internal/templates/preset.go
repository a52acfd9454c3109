// Package templates holds the named style presets used to render résumés.
package templates

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Hex parses a "#rrggbb" string.
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is Hex for package-level preset tables.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a "#rrggbb" string.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Palette is the set of colors a preset draws with.
type Palette struct {
	Primary   Color `json:"primary"`
	Secondary Color `json:"secondary"`
	Accent    Color `json:"accent"`
	Text      Color `json:"text"`
	LightGray Color `json:"light_gray"`
}

// FontSizes are point sizes for each text role.
type FontSizes struct {
	Name          float64 `json:"name" validate:"gt=0"`
	SectionHeader float64 `json:"section_header" validate:"gt=0"`
	Body          float64 `json:"body" validate:"gt=0"`
	Title         float64 `json:"title" validate:"gt=0"`
}

// Sidebar is the geometry and coloring of the left column in two-column layouts.
type Sidebar struct {
	// Width is the fraction of the page width taken by the sidebar.
	Width      float64 `json:"width" validate:"gt=0,lt=1"`
	Background Color   `json:"background"`
	Text       Color   `json:"text"`
}

// StylePreset is a named, read-only set of rendering parameters.
type StylePreset struct {
	Name   string  `json:"name" validate:"required"`
	Colors Palette `json:"colors"`

	SectionSpacing float64 `json:"section_spacing" validate:"gt=0"`
	LineHeight     float64 `json:"line_height" validate:"gt=0"`
	BulletIndent   float64 `json:"bullet_indent" validate:"gte=0"`
	// HeaderHeight is the height of the tinted band behind the header on
	// page one. Zero disables the band.
	HeaderHeight float64   `json:"header_height" validate:"gte=0"`
	Fonts        FontSizes `json:"fonts"`

	TwoColumn bool     `json:"two_column"`
	Sidebar   *Sidebar `json:"sidebar,omitempty" validate:"required_if=TwoColumn true"`
}

// clone returns a copy of p that shares no memory with it.
func (p StylePreset) clone() StylePreset {
	if p.Sidebar != nil {
		sidebar := *p.Sidebar
		p.Sidebar = &sidebar
	}
	return p
}
