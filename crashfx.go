// Package crashfx wires the crash store, dashboard and HTTP server into a
// runnable service.
package crashfx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vinumeris/crashfx/internal/color"
	"github.com/vinumeris/crashfx/internal/config"
	"github.com/vinumeris/crashfx/internal/engine"
	"github.com/vinumeris/crashfx/internal/palette"
	"github.com/vinumeris/crashfx/internal/report"
	"github.com/vinumeris/crashfx/internal/server"
	"github.com/vinumeris/crashfx/internal/store"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Entry is a labeled count to be colored.
type Entry = palette.Entry

// Swatch is an Entry with its assigned colors.
type Swatch = palette.Swatch

// Palette colors entries starting from cornflower blue, in legacy hex form.
func Palette(entries []Entry) []Swatch {
	return palette.Generate(color.CornflowerBlue, entries)
}

// App is a configured crash service.
type App struct {
	Config *config.Config

	store  *store.Store
	server *server.Server
}

// New opens the crash database and builds the HTTP server for cfg. reg may be
// nil, in which case a private registry is used.
func New(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	seed, err := cfg.SeedColor()
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg.Dashboard.Templates)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	st, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(server.Deps{
		Store: st,
		Reports: &report.Builder{
			Source: st,
			Seed:   seed,
			Format: cfg.Format(),
			Limit:  cfg.Dashboard.RecentLimit,
			Top:    cfg.Dashboard.Top,
		},
		Engine:   eng,
		Registry: reg,
	}, &server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Username:       cfg.Dashboard.Username,
		Password:       cfg.Dashboard.Password,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &App{Config: cfg, store: st, server: srv}, nil
}

// Handler returns the HTTP handler serving every crashfx route.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Close releases the crash database.
func (a *App) Close() error {
	return a.store.Close()
}
