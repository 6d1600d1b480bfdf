package httpx

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// handleLanding serves the public marketing page at the root. Anything
// else under "/" is unknown.
func (r *Router) handleLanding(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	r.renderPage(w, "landing.html", map[string]any{"Title": "EcoTracker"})
}

// handleDashboardPage renders the gated dashboard shell. The charts on it
// are populated client-side; the server only enforces the session gate.
func (r *Router) handleDashboardPage(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	session, err := sessionFromRequest(req)
	if err != nil {
		// The gate runs first; reaching here without a session is a bug.
		http.Redirect(w, req, "/", http.StatusTemporaryRedirect)
		return
	}
	r.renderPage(w, "dashboard.html", map[string]any{
		"Title": "Dashboard",
		"Name":  session.Name,
	})
}

func (r *Router) renderPage(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		r.logger.Error("template render failed", "template", name, "error", err)
	}
}
