package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vinumeris/crashfx/internal/palette"
	"github.com/vinumeris/crashfx/internal/report"
	"github.com/vinumeris/crashfx/internal/store"
)

func testDashboard() *report.Dashboard {
	return &report.Dashboard{
		Crashes: []store.Crash{
			{
				ID:            "1",
				Timestamp:     time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
				Log:           "Crash at 2024-05-06\nmy-app\njava.io.IOException: disk full\n\tat Foo.bar",
				ExceptionType: "java.io.IOException",
				AppID:         "my-app",
			},
			{
				ID:        "2",
				Timestamp: time.Date(2024, 5, 6, 7, 0, 0, 0, time.UTC),
				Log:       "\n  something <odd> happened\nmore",
			},
		},
		Tops: []palette.Swatch{
			{Count: 3, Label: "java.io.IOException", Color: "#6495ed", Highlight: "#6ba0ff"},
			{Count: 1, Label: "java.lang.Error", Color: "#8dafed", Highlight: "#97bcff"},
		},
		Total: 4,
	}
}

func setupTemplateDir(t *testing.T, templates map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDashboardBuiltin(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var buf bytes.Buffer
	if err := e.Dashboard(&buf, testDashboard()); err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}

	got := buf.String()
	wantParts := []string{
		"background: #6495ed; border-color: #6ba0ff",
		"background: #8dafed; border-color: #97bcff",
		"<td>75%</td>",
		"<td>java.lang.Error</td>",
		"2024-05-06T07:08:09Z",
		"<td>my-app</td>",
		"something &lt;odd&gt; happened",
		"dashboard/chart.png",
	}
	for _, want := range wantParts {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestDashboardEmpty(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var buf bytes.Buffer
	if err := e.Dashboard(&buf, &report.Dashboard{}); err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "No crashes reported.") {
		t.Errorf("empty dashboard missing placeholder, got:\n%s", got)
	}
	if strings.Contains(got, "chart.png") {
		t.Error("empty dashboard should not link the chart")
	}
}

func TestDashboardCustomTemplate(t *testing.T) {
	dir := setupTemplateDir(t, map[string]string{
		DashboardTemplate: `{{range .Tops}}{{.Label}}={{.Color}};{{end}}total={{.Total}}`,
	})

	e, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var buf bytes.Buffer
	if err := e.Dashboard(&buf, testDashboard()); err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}

	want := "java.io.IOException=#6495ed;java.lang.Error=#8dafed;total=4"
	if got := buf.String(); got != want {
		t.Errorf("Dashboard() = %q, want %q", got, want)
	}
}

func TestNewMissingTemplate(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Error("expected error for templates dir without dashboard template")
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"one\ntwo", "one"},
		{"\n\n  padded  \nrest", "padded"},
		{"", ""},
		{"\n \n", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentFunc(t *testing.T) {
	percent := funcMap()["percent"].(func(int, int) string)
	tests := []struct {
		n, total int
		want     string
	}{
		{3, 4, "75%"},
		{1, 3, "33%"},
		{5, 0, "0%"},
	}
	for _, tt := range tests {
		if got := percent(tt.n, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %q, want %q", tt.n, tt.total, got, tt.want)
		}
	}
}
