package api

import (
	"net/http"

	"github.com/playtrack/playtrack-core/internal/session"
)

// handleListDevices returns per-device usage summaries ranked by total
// play time.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.sessions.DeviceSummaries(r.Context())
	if err != nil {
		s.logger.Error("querying device summaries failed", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}
	if summaries == nil {
		summaries = []session.DeviceSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": summaries,
		"count":   len(summaries),
	})
}

// handleDeviceStatus returns the live state of every known device:
// playing, online, or offline.
func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := session.DeviceStatuses(r.Context(), s.sessions, s.now().UTC())
	if err != nil {
		s.logger.Error("deriving device statuses failed", "error", err)
		writeInternalError(w, "failed to derive device status")
		return
	}
	if statuses == nil {
		statuses = []session.DeviceStatus{}
	}

	statusCount := map[session.DeviceState]int{
		session.StatePlaying: 0,
		session.StateOnline:  0,
		session.StateOffline: 0,
	}
	for _, st := range statuses {
		statusCount[st.State]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices":      statuses,
		"status_count": statusCount,
		"count":        len(statuses),
	})
}
