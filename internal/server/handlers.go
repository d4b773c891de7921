package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vinumeris/crashfx/internal/chart"
	"github.com/vinumeris/crashfx/internal/metrics"
	"github.com/vinumeris/crashfx/internal/palette"
	"github.com/vinumeris/crashfx/internal/store"
)

// Request headers carrying crash metadata. The query parameters "app" and
// "exception" are accepted as alternatives.
const (
	HeaderCrashApp       = "X-Crash-App"
	HeaderCrashException = "X-Crash-Exception"
	HeaderCrashID        = "X-Crash-Id"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleUpload stores the request body as a crash log.
func (s *Server) handleUpload(c echo.Context) error {
	limit := s.config.MaxUploadBytes
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, limit+1))
	if err != nil {
		s.metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Warningf("reading crash upload: %s", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
	}
	if int64(len(body)) > limit {
		s.metrics.UploadsTotal.WithLabelValues(metrics.ResultTooLarge).Inc()
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "crash log too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		s.metrics.UploadsTotal.WithLabelValues(metrics.ResultEmpty).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "crash log is empty")
	}

	crash, err := s.store.Save(c.Request().Context(), store.Crash{
		Log:           strings.ToValidUTF8(string(body), "�"),
		ExceptionType: metadata(c, HeaderCrashException, "exception"),
		AppID:         metadata(c, HeaderCrashApp, "app"),
	})
	if err != nil {
		s.metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Errorf("saving crash: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store crash")
	}

	s.metrics.UploadsTotal.WithLabelValues(metrics.ResultStored).Inc()
	s.metrics.UploadBytes.Observe(float64(len(body)))
	c.Response().Header().Set(HeaderCrashID, crash.ID)
	return c.NoContent(http.StatusNoContent)
}

// metadata reads a crash attribute from its header, falling back to the query.
func metadata(c echo.Context, header, param string) string {
	if v := strings.TrimSpace(c.Request().Header.Get(header)); v != "" {
		return v
	}
	return strings.TrimSpace(c.QueryParam(param))
}

// handleDashboard renders the HTML dashboard.
func (s *Server) handleDashboard(c echo.Context) error {
	d, err := s.reports.Build(c.Request().Context())
	if err != nil {
		log.Errorf("building dashboard: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load crashes")
	}

	var buf bytes.Buffer
	if err := s.engine.Dashboard(&buf, d); err != nil {
		log.Errorf("rendering dashboard: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not render dashboard")
	}

	s.metrics.DashboardRenders.WithLabelValues("html").Inc()
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// handleChart renders the exception type pie chart.
func (s *Server) handleChart(c echo.Context) error {
	d, err := s.reports.Build(c.Request().Context())
	if err != nil {
		log.Errorf("building chart: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load crashes")
	}

	entries := make([]palette.Entry, len(d.Tops))
	for i, t := range d.Tops {
		entries[i] = palette.Entry{Count: t.Count, Label: t.Label}
	}

	var buf bytes.Buffer
	if err := chart.Pie(&buf, entries, s.reports.Seed, chart.DefaultSize); err != nil {
		log.Errorf("drawing chart: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not draw chart")
	}

	s.metrics.DashboardRenders.WithLabelValues("chart").Inc()
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleTops returns the ranked, colored exception types as JSON.
func (s *Server) handleTops(c echo.Context) error {
	d, err := s.reports.Build(c.Request().Context())
	if err != nil {
		log.Errorf("building tops: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load crashes")
	}

	s.metrics.DashboardRenders.WithLabelValues("api").Inc()
	return c.JSON(http.StatusOK, d.Tops)
}

// handleCrash returns one stored crash as JSON.
func (s *Server) handleCrash(c echo.Context) error {
	crash, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "crash not found")
	}
	if err != nil {
		log.Errorf("loading crash: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load crash")
	}
	return c.JSON(http.StatusOK, crash)
}
