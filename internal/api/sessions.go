package api

import (
	"net/http"
	"strconv"

	"github.com/playtrack/playtrack-core/internal/session"
)

// Pagination defaults for session listings.
const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// handleListSessions returns session history, newest first.
//
// Query parameters:
//   - device_id: restrict to one device
//   - page: 1-based page number (default 1)
//   - per_page: page size (default 50, max 500)
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	filter := session.ListFilter{
		DeviceID: r.URL.Query().Get("device_id"),
		Page:     1,
		PerPage:  defaultPerPage,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			writeBadRequest(w, "page must be a positive integer")
			return
		}
		filter.Page = page
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		perPage, err := strconv.Atoi(perPageStr)
		if err != nil || perPage < 1 {
			writeBadRequest(w, "per_page must be a positive integer")
			return
		}
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		filter.PerPage = perPage
	}

	sessions, err := s.sessions.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing sessions failed", "error", err)
		writeInternalError(w, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}
