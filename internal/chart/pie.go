// Package chart draws the exception type breakdown as a pie chart.
package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/vinumeris/crashfx/internal/color"
	"github.com/vinumeris/crashfx/internal/palette"
)

// DefaultSize is the width and height of the chart in pixels.
const DefaultSize = 320

const margin = 8

// Pie writes a size×size PNG with one wedge per entry, sized by count and
// colored from seed the same way the dashboard legend is. Wedges start at
// twelve o'clock and run clockwise in rank order. Entries with a non-positive
// count get no wedge but still consume a color, so legend and chart agree.
func Pie(w io.Writer, entries []palette.Entry, seed color.RGB, size int) error {
	if size <= 2*margin {
		return fmt.Errorf("chart size %d is too small", size)
	}

	dc := gg.NewContext(size, size)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	cx, cy := float64(size)/2, float64(size)/2
	radius := float64(size)/2 - margin

	total := 0
	for _, e := range entries {
		if e.Count > 0 {
			total += e.Count
		}
	}

	if total == 0 {
		dc.DrawCircle(cx, cy, radius)
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.Fill()
		return dc.EncodePNG(w)
	}

	pairs := palette.Sequence(seed, len(entries))
	angle := -math.Pi / 2
	dc.SetLineWidth(2)
	for i, e := range entries {
		if e.Count <= 0 {
			continue
		}
		sweep := 2 * math.Pi * float64(e.Count) / float64(total)

		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		setColor(dc, pairs[i].Base)
		dc.FillPreserve()
		setColor(dc, pairs[i].Highlight)
		dc.Stroke()

		angle += sweep
	}

	return dc.EncodePNG(w)
}

func setColor(dc *gg.Context, c color.RGB) {
	dc.SetRGB(c.Red, c.Green, c.Blue)
}
