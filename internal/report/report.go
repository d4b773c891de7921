// Package report turns stored crashes into the data shown on the dashboard.
package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vinumeris/crashfx/internal/color"
	"github.com/vinumeris/crashfx/internal/palette"
	"github.com/vinumeris/crashfx/internal/store"
)

// DefaultLimit is how many recent crashes the dashboard considers.
const DefaultLimit = 100

// Source supplies recent crashes.
type Source interface {
	Recent(ctx context.Context, limit int) ([]store.Crash, error)
}

// Dashboard is the presentation payload for the dashboard template.
type Dashboard struct {
	Crashes []store.Crash
	Tops    []palette.Swatch
	// Total is the number of crashes that carried an exception type.
	Total int
}

// Builder assembles a Dashboard from a Source.
type Builder struct {
	Source Source
	Seed   color.RGB
	Format color.Format
	// Limit caps how many recent crashes are read; zero means DefaultLimit.
	Limit int
	// Top keeps only the first Top ranked types; zero keeps all.
	Top int
}

// Build reads recent crashes, ranks their exception types and colors them.
func (b *Builder) Build(ctx context.Context) (*Dashboard, error) {
	limit := b.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	crashes, err := b.Source.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent crashes: %w", err)
	}

	entries := Rank(crashes)
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	if b.Top > 0 && len(entries) > b.Top {
		entries = entries[:b.Top]
	}

	return &Dashboard{
		Crashes: crashes,
		Tops:    palette.Generate(b.Seed, entries, palette.WithFormat(b.Format)),
		Total:   total,
	}, nil
}

// Rank counts crashes per exception type, highest count first. Ties are
// ordered by label. Crashes without an exception type are skipped.
func Rank(crashes []store.Crash) []palette.Entry {
	counts := make(map[string]int)
	for _, c := range crashes {
		name := strings.TrimSpace(c.ExceptionType)
		if name == "" {
			continue
		}
		counts[name]++
	}

	entries := make([]palette.Entry, 0, len(counts))
	for label, n := range counts {
		entries = append(entries, palette.Entry{Count: n, Label: label})
	}
	slices.SortFunc(entries, func(a, b palette.Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return entries
}
