package color

import "fmt"

// RGB is a color with red, green and blue channels in [0, 1].
type RGB struct {
	Red   float64
	Green float64
	Blue  float64
}

// CornflowerBlue is the seed color for crash palettes.
var CornflowerBlue = RGB{Red: 0.39215687, Green: 0.58431375, Blue: 0.92941177}

// HSB converts the color to hue/saturation/brightness. Achromatic colors get
// hue 0.
func (c RGB) HSB() HSB {
	cmax := max(c.Red, c.Green, c.Blue)
	cmin := min(c.Red, c.Green, c.Blue)

	saturation := 0.0
	if cmax != 0 {
		saturation = (cmax - cmin) / cmax
	}

	hue := 0.0
	if saturation != 0 {
		delta := cmax - cmin
		redc := (cmax - c.Red) / delta
		greenc := (cmax - c.Green) / delta
		bluec := (cmax - c.Blue) / delta

		switch cmax {
		case c.Red:
			hue = bluec - greenc
		case c.Green:
			hue = 2.0 + redc - bluec
		default:
			hue = 4.0 + greenc - redc
		}
		hue /= 6.0
		if hue < 0 {
			hue += 1.0
		}
	}

	return HSB{Hue: hue * 360, Saturation: saturation, Brightness: cmax}
}

// Color truncates each channel to 8 bits.
func (c RGB) Color() Color {
	return Color{
		R: channel8(c.Red),
		G: channel8(c.Green),
		B: channel8(c.Blue),
	}
}

// WebString formats the color as a hex web color, one unpadded hex number per
// channel. Channels below 16 yield a single digit, so the result is not always
// six digits long.
func (c RGB) WebString() string {
	col := c.Color()
	return fmt.Sprintf("#%x%x%x", col.R, col.G, col.B)
}

// Format writes the color in the given web color format.
func (c RGB) Format(f Format) string {
	if f == FormatPadded {
		return c.Color().Hex()
	}
	return c.WebString()
}

// channel8 scales a [0, 1] channel to 0..255, truncating toward zero.
func channel8(v float64) uint8 {
	return uint8(clamp01(v) * 255)
}
