package color

import (
	"fmt"
	"strings"
)

// Color is an 8-bit sRGB color. It is the form colors take at the edges of the
// system: hex strings in configuration files and pixels in rendered charts.
type Color struct {
	R, G, B uint8
}

// ParseHex parses a hex color string like "#6495ed" into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	var r, g, b uint8
	_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the color as a hex string with leading #, e.g. "#6495ed".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a hex string without leading #, e.g. "6495ed".
func (c Color) HexBare() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color with each channel scaled into [0, 1].
func (c Color) RGB() RGB {
	return RGB{
		Red:   float64(c.R) / 255.0,
		Green: float64(c.G) / 255.0,
		Blue:  float64(c.B) / 255.0,
	}
}

// Format selects how an RGB value is written as a web color.
type Format int

const (
	// FormatLegacy writes each channel as an unpadded hex number, so a channel
	// below 16 contributes a single digit ("#ff00" for pure red).
	FormatLegacy Format = iota
	// FormatPadded writes two hex digits per channel ("#ff0000").
	FormatPadded
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatPadded:
		return "padded"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
