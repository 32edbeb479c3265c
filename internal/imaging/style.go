package imaging

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style holds the colours and stroke sizes used to annotate coins.
type Style struct {
	// Matched outlines coins that were classified.
	Matched color.NRGBA

	// Unknown outlines and labels coins that matched no denomination.
	Unknown color.NRGBA

	// Label is the text colour for denomination names.
	Label color.NRGBA

	// Debug outlines every raw detection on the diagnostic image.
	Debug color.NRGBA

	// DebugLabel is the text colour for raw radii on the diagnostic image.
	DebugLabel color.NRGBA

	CircleThickness    int
	FontScale          float64
	FontThickness      int
	DebugFontScale     float64
	DebugFontThickness int
}

// DefaultStyle returns green rings with blue names for matched coins, red for
// unknown coins, and black radius text on the diagnostic image.
func DefaultStyle() Style {
	return Style{
		Matched:            color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		Unknown:            color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		Label:              color.NRGBA{R: 0, G: 0, B: 255, A: 255},
		Debug:              color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		DebugLabel:         color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		CircleThickness:    4,
		FontScale:          1.2,
		FontThickness:      3,
		DebugFontScale:     1.0,
		DebugFontThickness: 4,
	}
}

// ParseColor parses "#RRGGBB" or "#RGB" (the leading '#' is optional) into an
// opaque colour.
func ParseColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexColor formats c as "#rrggbb", ignoring alpha.
func HexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
