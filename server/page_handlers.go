package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

func ParseTemplate(fileName string) (*template.Template, error) {
	data, err := fs.ReadFile(StaticFilesFS(), fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", fileName, err)
	}

	tmpl, err := template.New(fileName).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", fileName, err)
	}
	return tmpl, nil
}

// IndexHandler renders the landing page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	}
}

// DashboardHandler renders the dashboard shell; the page's script drives the
// session-gated API routes.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	}
}
