package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Session history
		r.Get("/sessions", s.handleListSessions)

		// Usage statistics
		r.Get("/stats", s.handleStats)
		r.Get("/charts/daily", s.handleDailyChart)

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/status", s.handleDeviceStatus)
		})

		// WebSocket for live session-change notifications
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status and component states.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{}

	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			components["database"] = "unhealthy"
		} else {
			components["database"] = "ok"
		}
	}

	if s.mqtt != nil {
		components["mqtt"] = s.mqtt.CurrentState().String()
	} else {
		components["mqtt"] = "unavailable"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.version,
		"components": components,
	})
}
