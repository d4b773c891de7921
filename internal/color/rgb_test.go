package color

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestCornflowerBlueHSB(t *testing.T) {
	got := CornflowerBlue.HSB()
	if got.Hue < 218.4 || got.Hue > 218.6 {
		t.Errorf("Hue = %v, want ≈218.5", got.Hue)
	}
	if got.Saturation < 0.577 || got.Saturation > 0.579 {
		t.Errorf("Saturation = %v, want ≈0.578", got.Saturation)
	}
	if !approx(got.Brightness, 0.92941177) {
		t.Errorf("Brightness = %v, want 0.92941177", got.Brightness)
	}

	back := got.RGB()
	if !approx(back.Red, CornflowerBlue.Red) || !approx(back.Green, CornflowerBlue.Green) || !approx(back.Blue, CornflowerBlue.Blue) {
		t.Errorf("round trip = %+v, want %+v", back, CornflowerBlue)
	}
}

func TestRGBToHSB(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want HSB
	}{
		{"red", RGB{1, 0, 0}, HSB{0, 1, 1}},
		{"green", RGB{0, 1, 0}, HSB{120, 1, 1}},
		{"blue", RGB{0, 0, 1}, HSB{240, 1, 1}},
		{"yellow", RGB{1, 1, 0}, HSB{60, 1, 1}},
		{"magenta", RGB{1, 0, 1}, HSB{300, 1, 1}},
		{"black", RGB{0, 0, 0}, HSB{0, 0, 0}},
		{"white", RGB{1, 1, 1}, HSB{0, 0, 1}},
		{"gray", RGB{0.5, 0.5, 0.5}, HSB{0, 0, 0.5}},
		{"dark green", RGB{0.03, 0.5, 0.02}, HSB{118.75, 0.96, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.HSB()
			if !approx(got.Hue, tt.want.Hue) || !approx(got.Saturation, tt.want.Saturation) || !approx(got.Brightness, tt.want.Brightness) {
				t.Errorf("%+v.HSB() = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBToHSBMatchesColorful(t *testing.T) {
	samples := []RGB{
		{0.39215687, 0.58431375, 0.92941177},
		{0.9, 0.2, 0.4},
		{0.1, 0.8, 0.3},
		{0.25, 0.25, 0.75},
		{0.7, 0.6, 0.1},
	}
	for _, c := range samples {
		got := c.HSB()
		h, s, v := colorful.Color{R: c.Red, G: c.Green, B: c.Blue}.Hsv()
		if !approx(got.Hue, h) || !approx(got.Saturation, s) || !approx(got.Brightness, v) {
			t.Errorf("%+v.HSB() = %+v, colorful says (%v, %v, %v)", c, got, h, s, v)
		}
	}
}

func TestWebString(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want string
	}{
		{"cornflower blue", CornflowerBlue, "#6495ed"},
		{"white", RGB{1, 1, 1}, "#ffffff"},
		{"red is unpadded", RGB{1, 0, 0}, "#ff00"},
		{"black is unpadded", RGB{0, 0, 0}, "#000"},
		{"small channels", RGB{0.03, 0.5, 0.02}, "#77f5"},
		{"truncates not rounds", RGB{0.5, 0.5, 0.5}, "#7f7f7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.WebString(); got != tt.want {
				t.Errorf("%+v.WebString() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBFormat(t *testing.T) {
	c := RGB{0.03, 0.5, 0.02}
	if got := c.Format(FormatLegacy); got != "#77f5" {
		t.Errorf("Format(FormatLegacy) = %q, want %q", got, "#77f5")
	}
	if got := c.Format(FormatPadded); got != "#077f05" {
		t.Errorf("Format(FormatPadded) = %q, want %q", got, "#077f05")
	}
}

func TestRGBColorClampsOutOfRange(t *testing.T) {
	got := RGB{-0.2, 1.5, 0.5}.Color()
	want := Color{0, 255, 127}
	if got != want {
		t.Errorf("Color() = %v, want %v", got, want)
	}
}
