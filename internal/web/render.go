package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
	"github.com/sudo-init-do/khadamni/internal/nav"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login", "main", "browse", "create_post", "profile", "stub"}

// Renderer renders a page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"path":  screenPath,
		"title": func(s nav.Screen) string { return screenTitles[s] },
		"label": func(field string) string { return marketplace.FieldLabels[field] },
		"tab": func(s nav.Screen) bool {
			return s != nav.Login && s != nav.Demo && s != nav.Register
		},
		"canLogout": func(targets []nav.Screen) bool {
			for _, s := range targets {
				if s == nav.Login {
					return true
				}
			}
			return false
		},
		"cities":        func() []string { return marketplace.Cities },
		"serviceTypes":  func() []string { return marketplace.ServiceTypes },
		"workSchedules": func() []string { return marketplace.WorkSchedules },
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
