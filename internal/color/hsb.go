package color

import "math"

// brightenFactor is the brightness multiplier applied by Brighter.
const brightenFactor = 1.0 / 0.7

// desaturateFactor is the saturation multiplier applied by Desaturate.
const desaturateFactor = 0.7

// blackFloor replaces a zero brightness when brightening, so black can get lighter.
const blackFloor = 0.05

// HSB is a color in hue/saturation/brightness form. Hue is in degrees and may
// lie outside [0, 360) until it passes through Derive or RGB; saturation and
// brightness are in [0, 1].
type HSB struct {
	Hue        float64
	Saturation float64
	Brightness float64
}

// Derive returns a new color with the hue rotated by hueShift degrees and the
// saturation and brightness scaled by the given factors. The result always
// has hue in [0, 360) and saturation and brightness in [0, 1].
func (c HSB) Derive(hueShift, saturationFactor, brightnessFactor float64) HSB {
	b := c.Brightness
	if b == 0 && brightnessFactor > 1.0 {
		b = blackFloor
	}

	return HSB{
		Hue:        wrapHue(c.Hue + hueShift),
		Saturation: clamp01(c.Saturation * saturationFactor),
		Brightness: clamp01(b * brightnessFactor),
	}
}

// Brighter returns the color with brightness raised by a factor of 1/0.7.
func (c HSB) Brighter() HSB {
	return c.Derive(0, 1.0, brightenFactor)
}

// Desaturate returns the color with saturation reduced by 30%.
func (c HSB) Desaturate() HSB {
	return c.Derive(0, desaturateFactor, 1.0)
}

// RGB converts the color to red/green/blue channels.
func (c HSB) RGB() RGB {
	hue := wrapHue(c.Hue) / 360
	v := c.Brightness

	if c.Saturation == 0 {
		return RGB{Red: v, Green: v, Blue: v}
	}

	h := (hue - math.Floor(hue)) * 6.0
	f := h - math.Floor(h)
	p := v * (1.0 - c.Saturation)
	q := v * (1.0 - c.Saturation*f)
	t := v * (1.0 - c.Saturation*(1.0-f))

	// h can round up to exactly 6 for hues a hair below 360.
	sector := min(max(int(h), 0), 5)

	switch sector {
	case 0:
		return RGB{Red: v, Green: t, Blue: p}
	case 1:
		return RGB{Red: q, Green: v, Blue: p}
	case 2:
		return RGB{Red: p, Green: v, Blue: t}
	case 3:
		return RGB{Red: p, Green: q, Blue: v}
	case 4:
		return RGB{Red: t, Green: p, Blue: v}
	default:
		return RGB{Red: v, Green: p, Blue: q}
	}
}

// wrapHue maps any hue in degrees into [0, 360), including negative hues.
func wrapHue(h float64) float64 {
	return math.Mod(math.Mod(h, 360)+360, 360)
}
