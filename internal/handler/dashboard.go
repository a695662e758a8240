package handler

import (
	"log/slog"
	"net/http"

	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/service"
)

// PageHandler serves the landing page.
type PageHandler struct {
	sessions *auth.SessionService
	renderer *Renderer
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(sessions *auth.SessionService, renderer *Renderer) *PageHandler {
	return &PageHandler{
		sessions: sessions,
		renderer: renderer,
	}
}

// HandleIndex serves the landing page.
//
// HTTP: GET / (no auth requirement)
// A logged-in visitor is sent straight to their dashboard; everyone else
// gets the landing page with links to register and login.
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if auth.IsAuthenticated(r, h.sessions) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, r, "index.html", map[string]any{
		"Title": "Weatherly — tasks and weather in one place",
	})
}

// DashboardHandler serves the dashboard page.
type DashboardHandler struct {
	dashboard *service.DashboardService
	renderer  *Renderer
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService, renderer *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		renderer:  renderer,
		logger:    logger,
	}
}

// HandleDashboard renders the task list, the weather panel, and the city
// switcher.
//
// HTTP: GET /dashboard?city=Pokhara (authenticated)
// The optional city parameter overrides the user's preference for this
// render only. A failed weather lookup still renders the page — the
// template just skips the panel when Weather is nil.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees this; guard anyway.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	view, err := h.dashboard.View(r.Context(), userID, r.URL.Query().Get("city"))
	if err != nil {
		h.logger.Error("dashboard render failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, r, "dashboard.html", map[string]any{
		"Title":   "Dashboard — Weatherly",
		"Tasks":   view.Tasks,
		"Weather": view.Weather,
		"City":    view.City,
		"Cities":  view.Cities,
	})
}
