package engine

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/vinumeris/crashfx/internal/report"
)

// DashboardTemplate is the file name the dashboard template is loaded from.
const DashboardTemplate = "dashboard.html.tmpl"

//go:embed templates/*.tmpl
var builtin embed.FS

// Engine executes the dashboard template against report data.
type Engine struct {
	tmpl *template.Template
}

// New parses the dashboard template. When templatesDir is empty the built-in
// template is used, otherwise DashboardTemplate is read from templatesDir.
func New(templatesDir string) (*Engine, error) {
	var src fs.FS
	if templatesDir == "" {
		sub, err := fs.Sub(builtin, "templates")
		if err != nil {
			return nil, fmt.Errorf("opening built-in templates: %w", err)
		}
		src = sub
	} else {
		src = os.DirFS(templatesDir)
	}

	tmpl, err := template.New(DashboardTemplate).Funcs(funcMap()).ParseFS(src, DashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", DashboardTemplate, err)
	}
	return &Engine{tmpl: tmpl}, nil
}

// Dashboard renders the dashboard page for d.
func (e *Engine) Dashboard(w io.Writer, d *report.Dashboard) error {
	if err := e.tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("executing template %s: %w", DashboardTemplate, err)
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"timestamp": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"firstLine": firstLine,
		"percent": func(n, total int) string {
			if total <= 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(total))
		},
	}
}

// firstLine returns the first non-empty line of a crash log.
func firstLine(log string) string {
	for line := range strings.SplitSeq(log, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
