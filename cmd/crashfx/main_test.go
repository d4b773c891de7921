package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinumeris/crashfx/internal/palette"
)

func TestParseEntries(t *testing.T) {
	got, err := parseEntries([]string{"java.io.IOException=3", "a=b=1", "neg=-2"})
	if err != nil {
		t.Fatalf("parseEntries() error: %v", err)
	}
	want := []palette.Entry{
		{Label: "java.io.IOException", Count: 3},
		{Label: "a=b", Count: 1},
		{Label: "neg", Count: -2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseEntriesErrors(t *testing.T) {
	for _, arg := range []string{"nocount", "x=", "x=abc"} {
		if _, err := parseEntries([]string{arg}); err == nil {
			t.Errorf("parseEntries(%q) succeeded, want error", arg)
		}
	}
}

func TestPaletteCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"palette", "A=2", "B=1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("palette error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[1], "#6495ed") || !strings.Contains(lines[1], "#6ba0ff") {
		t.Errorf("first row = %q, want cornflower blue and its highlight", lines[1])
	}
	if !strings.Contains(lines[2], "#8dafed") {
		t.Errorf("second row = %q, want desaturated color", lines[2])
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashfx.hcl")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagConfig = "crashfx.hcl"
	})

	rootCmd.SetArgs([]string{"init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dashboard {") {
		t.Errorf("config missing dashboard block:\n%s", data)
	}

	rootCmd.SetArgs([]string{"init", "--config", path})
	if err := rootCmd.Execute(); err == nil {
		t.Error("second init succeeded, want error for existing file")
	}
}
