// Package web carries the embedded templates and static assets so a
// site deploys as a single binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// TemplateFuncs are the helpers available inside templates
var TemplateFuncs = template.FuncMap{
	"formatDate": func(v any) string {
		return formatTime(v, "January 2, 2006")
	},
	"formatDateTime": func(v any) string {
		return formatTime(v, "Jan 2, 2006 15:04")
	},
	"safeHTML": func(s string) template.HTML {
		// article bodies are sanitized before storage
		return template.HTML(s)
	},
	"year": func() int {
		return time.Now().Year()
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// formatTime renders both time.Time values and the nullable pointer
// fields the DTOs use
func formatTime(v any, layout string) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(layout)
	}
	return ""
}

// Templates parses the embedded template set
func Templates() (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs).ParseFS(templatesFS, "templates/*.html")
}

// Static returns the embedded static asset tree rooted at static/
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
