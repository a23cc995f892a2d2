package session

import "time"

// Session is a single usage period of an arcade device.
// It matches the game_sessions table created by the initial migration.
//
// EndTime and DurationSeconds are nil while the session is open; both
// are set exactly once when the session closes.
type Session struct {
	ID              int64      `json:"id"`
	DeviceID        string     `json:"device_id"`
	DeviceName      string     `json:"device_name"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Open reports whether the session has not yet been closed.
func (s *Session) Open() bool {
	return s.EndTime == nil
}

// EventKind identifies the type of a device event.
type EventKind string

// Known event kinds. Anything else is rejected by the decoder.
const (
	EventGameStart EventKind = "game_start"
	EventGameEnd   EventKind = "game_end"
)

// Event is a validated domain event decoded from an event-bus payload.
type Event struct {
	Kind       EventKind
	DeviceID   string
	DeviceName string
}

// ListFilter narrows and paginates session listings.
type ListFilter struct {
	// DeviceID restricts results to one device when non-empty.
	DeviceID string

	// Page is 1-based; PerPage is the page size.
	Page    int
	PerPage int
}

// RangeStats aggregates completed sessions whose start time falls in a
// half-open time range.
type RangeStats struct {
	TotalSeconds  int64 `json:"total_time_seconds"`
	SessionCount  int   `json:"session_count"`
	ActiveDevices int   `json:"active_devices"`
}

// DeviceSummary is a per-device usage rollup for the reporting layer.
type DeviceSummary struct {
	DeviceID     string     `json:"device_id"`
	DeviceName   string     `json:"device_name"`
	TotalSeconds int64      `json:"total_time_seconds"`
	SessionCount int        `json:"session_count"`
	LastPlayed   *time.Time `json:"last_played,omitempty"`
}

// DailyTotal is one day's aggregate for chart data.
type DailyTotal struct {
	Date         string `json:"date"`
	TotalSeconds int64  `json:"total_time_seconds"`
	SessionCount int    `json:"session_count"`
}

// DeviceState is the live status of a device derived from its latest session.
type DeviceState string

// Device states. A device is "playing" while it has an open session,
// "online" for a short window after its last session ended, and
// "offline" otherwise.
const (
	StatePlaying DeviceState = "playing"
	StateOnline  DeviceState = "online"
	StateOffline DeviceState = "offline"
)

// DeviceStatus is the live view of one device for the reporting layer.
type DeviceStatus struct {
	DeviceID         string      `json:"device_id"`
	DeviceName       string      `json:"device_name"`
	State            DeviceState `json:"status"`
	CurrentSessionID *int64      `json:"current_session_id,omitempty"`
	LastActivity     *time.Time  `json:"last_activity,omitempty"`
}
