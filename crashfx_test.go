package crashfx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vinumeris/crashfx/internal/config"
	"github.com/vinumeris/crashfx/internal/server"
)

func TestPalette(t *testing.T) {
	got := Palette([]Entry{{Count: 3, Label: "a"}, {Count: 1, Label: "b"}})

	want := []Swatch{
		{Count: 3, Label: "a", Color: "#6495ed", Highlight: "#6ba0ff"},
		{Count: 1, Label: "b", Color: "#8dafed", Highlight: "#97bcff"},
	}
	if len(got) != len(want) {
		t.Fatalf("Palette() returned %d swatches, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("swatch %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func testConfig(t *testing.T, password string) *config.Config {
	t.Helper()
	t.Setenv(config.PasswordEnv, "")
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.Dashboard.Password = password
	return cfg
}

func TestNew(t *testing.T) {
	app, err := New(context.Background(), testConfig(t, "hunter2"), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/crashfx/upload", strings.NewReader("boom"))
	req.Header.Set(server.HeaderCrashException, "E")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("upload status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/crashfx/dashboard", nil)
	req.SetBasicAuth(config.DefaultUsername, "hunter2")
	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "#6495ed") {
		t.Errorf("dashboard missing first palette color:\n%s", rec.Body.String())
	}
}

func TestNewRefusesPlaceholderPassword(t *testing.T) {
	for _, pw := range []string{"", "CHANGE_ME"} {
		_, err := New(context.Background(), testConfig(t, pw), nil)
		if err == nil {
			t.Errorf("New() with password %q succeeded, want error", pw)
		}
	}
}

func TestNewInvalidSeed(t *testing.T) {
	cfg := testConfig(t, "pw")
	cfg.Dashboard.Seed = "#zzzzzz"

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Error("New() with bad seed succeeded, want error")
	}
}

func TestNewInvalidPort(t *testing.T) {
	cfg := testConfig(t, "pw")
	cfg.Server.Port = 0

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Error("New() accepted port 0")
	}
}
