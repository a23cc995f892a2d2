package session

import (
	"context"
	"fmt"
	"time"
)

// onlineWindow is how long after its last session ends a device is
// still considered online rather than offline.
const onlineWindow = 5 * time.Minute

// DeviceStatuses derives the live state of every known device from its
// most recent session.
func DeviceStatuses(ctx context.Context, repo Repository, now time.Time) ([]DeviceStatus, error) {
	latest, err := repo.LatestByDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying latest sessions: %w", err)
	}

	statuses := make([]DeviceStatus, 0, len(latest))
	for i := range latest {
		statuses = append(statuses, deriveStatus(&latest[i], now))
	}
	return statuses, nil
}

// deriveStatus classifies one device from its most recent session.
func deriveStatus(s *Session, now time.Time) DeviceStatus {
	status := DeviceStatus{
		DeviceID:   s.DeviceID,
		DeviceName: s.DeviceName,
	}

	if s.Open() {
		status.State = StatePlaying
		status.CurrentSessionID = &s.ID
		status.LastActivity = &s.StartTime
		return status
	}

	status.LastActivity = s.EndTime
	if now.Sub(*s.EndTime) <= onlineWindow {
		status.State = StateOnline
	} else {
		status.State = StateOffline
	}
	return status
}

// DayRange returns the UTC half-open range covering the calendar day
// containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// WeekRange returns the UTC half-open range covering the Monday-based
// week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	from := day.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 7)
}
