// Package palette assigns a base and highlight color to each entry of a
// ranked list of categories.
package palette

import (
	"strings"

	"github.com/vinumeris/crashfx/internal/color"
)

// Entry is one ranked category: how often it occurred and its label.
type Entry struct {
	Count int
	Label string
}

// Swatch is an Entry with its assigned colors as web color strings.
type Swatch struct {
	Count     int    `json:"count"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	Highlight string `json:"highlight"`
}

type options struct {
	format color.Format
}

// Option configures Generate.
type Option func(*options)

// WithFormat selects how colors are written. The default is color.FormatLegacy.
func WithFormat(f color.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// Pair is a base color and the highlight derived from it.
type Pair struct {
	Base      color.RGB
	Highlight color.RGB
}

// Sequence returns the first n color pairs starting from seed. Each pair's
// highlight is its base brightened; each base is the previous one desaturated.
func Sequence(seed color.RGB, n int) []Pair {
	pairs := make([]Pair, 0, max(n, 0))
	current := seed.HSB()
	for range n {
		pairs = append(pairs, Pair{
			Base:      current.RGB(),
			Highlight: current.Brighter().RGB(),
		})
		current = current.Desaturate()
	}
	return pairs
}

// Generate colors entries in order starting from seed, using Sequence. The
// result has one Swatch per entry, in the same order.
func Generate(seed color.RGB, entries []Entry, opts ...Option) []Swatch {
	o := options{format: color.FormatLegacy}
	for _, opt := range opts {
		opt(&o)
	}

	swatches := make([]Swatch, len(entries))
	for i, p := range Sequence(seed, len(entries)) {
		swatches[i] = Swatch{
			Count:     entries[i].Count,
			Label:     strings.TrimSpace(entries[i].Label),
			Color:     p.Base.Format(o.format),
			Highlight: p.Highlight.Format(o.format),
		}
	}
	return swatches
}
