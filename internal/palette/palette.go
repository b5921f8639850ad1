// Package palette supplies the ordered color set used for menu items and
// assigns colors to item values.
package palette

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmpty is returned when a palette has no colors.
var ErrEmpty = errors.New("palette must contain at least one color")

// Fallback colors used when an item has no assigned color.
const (
	FallbackHandle    = "#888"
	FallbackIndicator = "#ccc"
	FallbackRow       = "#f5f5f5"
)

// rowTintAlpha matches a "22" alpha suffix on a hex color.
const rowTintAlpha = float64(0x22) / 255

// Default returns the built-in ten color palette.
func Default() Palette {
	return Palette{colors: []string{
		"#FF5733",
		"#33A1FD",
		"#2ECC71",
		"#9B59B6",
		"#F1C40F",
		"#E74C3C",
		"#1ABC9C",
		"#FF9FF3",
		"#A3CB38",
		"#5352ED",
	}}
}

// Palette is a non-empty, fixed, ordered sequence of hex colors.
type Palette struct {
	colors []string
}

// New validates colors and builds a palette from them.
func New(colors []string) (Palette, error) {
	if len(colors) == 0 {
		return Palette{}, ErrEmpty
	}
	for i, c := range colors {
		if _, err := colorful.Hex(c); err != nil {
			return Palette{}, fmt.Errorf("palette color %d (%q): %w", i, c, err)
		}
	}
	return Palette{colors: append([]string(nil), colors...)}, nil
}

// Len is the number of colors.
func (p Palette) Len() int {
	return len(p.colors)
}

// At returns the color at i modulo the palette size.
func (p Palette) At(i int) string {
	if len(p.colors) == 0 {
		p = Default()
	}
	n := len(p.colors)
	return p.colors[((i%n)+n)%n]
}

// Colors returns a copy of the palette entries.
func (p Palette) Colors() []string {
	return append([]string(nil), p.colors...)
}

// Assign ensures value has a color in known and returns it. A value seen
// for the first time gets the palette entry at len(known) mod size; a value
// already present keeps its color. known is modified in place.
func (p Palette) Assign(known map[string]string, value string) (color string, isNew bool) {
	if c, ok := known[value]; ok {
		return c, false
	}
	c := p.At(len(known))
	known[value] = c
	return c, true
}

// AssignAll assigns colors to every value in order and returns a fresh map
// holding both the previous and the new assignments.
func (p Palette) AssignAll(known map[string]string, values []string) map[string]string {
	out := make(map[string]string, len(known)+len(values))
	for k, v := range known {
		out[k] = v
	}
	for _, v := range values {
		p.Assign(out, v)
	}
	return out
}

// Lookup returns the assigned color of value, if any.
func Lookup(known map[string]string, value string) (string, bool) {
	c, ok := known[value]
	return c, ok
}

// Tint returns the light row background for an item color. Unknown or
// unparsable colors get FallbackRow.
func Tint(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return FallbackRow
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return white.BlendRgb(c, rowTintAlpha).Clamped().Hex()
}
