// Package ascii turns captured frames into glyph grids.
package ascii

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Ramp is an ordered glyph table, darkest first, brightest last.
// It is treated as immutable once handed to a conversion.
type Ramp []rune

// Built-in ramp presets, selectable by name.
var presets = map[string]Ramp{
	"blocks":  Ramp(" ░▒▓█"),
	"classic": Ramp(" .:-=+*#%@"),
	"dense":   Ramp(" .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"),
}

// PresetNames lists the available ramp presets in cycling order.
var PresetNames = []string{"blocks", "classic", "dense"}

// Preset returns a named ramp, or ok=false for an unknown name.
func Preset(name string) (Ramp, bool) {
	r, ok := presets[name]
	return r, ok
}

// Validate checks that the ramp is usable: at least two glyphs, each
// occupying exactly one terminal cell so the grid stays rectangular.
func (r Ramp) Validate() error {
	if len(r) < 2 {
		return fmt.Errorf("ramp needs at least 2 glyphs, got %d", len(r))
	}
	for i, g := range r {
		if runewidth.RuneWidth(g) != 1 {
			return fmt.Errorf("ramp glyph %d (%q) is not single-cell", i, g)
		}
	}
	return nil
}

// Glyph maps a brightness byte to a glyph. The mapping is monotonic
// non-decreasing: index = floor(b/255 * (len-1)).
func (r Ramp) Glyph(b byte) rune {
	idx := int(b) * (len(r) - 1) / 255
	if idx < 0 {
		idx = 0
	}
	if idx > len(r)-1 {
		idx = len(r) - 1
	}
	return r[idx]
}
