package session

import (
	"context"
	"testing"
	"time"
)

func TestDeviceStatuses(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// cab-01: open session, playing.
	playing := mustCreate(t, repo, "cab-01", "Pinball", now.Add(-10*time.Minute))

	// cab-02: ended two minutes ago, online.
	s2 := mustCreate(t, repo, "cab-02", "Racer", now.Add(-time.Hour))
	mustClose(t, repo, s2.ID, now.Add(-2*time.Minute), 3480)

	// cab-03: ended an hour ago, offline.
	s3 := mustCreate(t, repo, "cab-03", "Shooter", now.Add(-2*time.Hour))
	mustClose(t, repo, s3.ID, now.Add(-time.Hour), 3600)

	statuses, err := DeviceStatuses(context.Background(), repo, now)
	if err != nil {
		t.Fatalf("DeviceStatuses() error = %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3", len(statuses))
	}

	byID := make(map[string]DeviceStatus, len(statuses))
	for _, s := range statuses {
		byID[s.DeviceID] = s
	}

	if got := byID["cab-01"]; got.State != StatePlaying {
		t.Errorf("cab-01 state = %q, want %q", got.State, StatePlaying)
	} else if got.CurrentSessionID == nil || *got.CurrentSessionID != playing.ID {
		t.Errorf("cab-01 CurrentSessionID = %v, want %d", got.CurrentSessionID, playing.ID)
	}

	if got := byID["cab-02"]; got.State != StateOnline {
		t.Errorf("cab-02 state = %q, want %q", got.State, StateOnline)
	}
	if got := byID["cab-03"]; got.State != StateOffline {
		t.Errorf("cab-03 state = %q, want %q", got.State, StateOffline)
	}
}

func TestDeviceStatuses_OnlineWindowBoundary(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// Ended exactly five minutes ago is still online.
	s := mustCreate(t, repo, "cab-01", "Pinball", now.Add(-time.Hour))
	mustClose(t, repo, s.ID, now.Add(-onlineWindow), 3300)

	statuses, err := DeviceStatuses(context.Background(), repo, now)
	if err != nil {
		t.Fatalf("DeviceStatuses() error = %v", err)
	}
	if statuses[0].State != StateOnline {
		t.Errorf("state = %q, want %q", statuses[0].State, StateOnline)
	}
}

func TestDayRange(t *testing.T) {
	from, to := DayRange(time.Date(2026, 8, 30, 15, 42, 7, 0, time.UTC))

	wantFrom := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Errorf("from = %v, want %v", from, wantFrom)
	}
	if !to.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Errorf("to = %v, want %v", to, wantFrom.AddDate(0, 0, 1))
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		wantFrom time.Time
	}{
		{
			name:     "sunday maps to previous monday",
			input:    time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monday is its own week start",
			input:    time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "wednesday",
			input:    time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC),
			wantFrom: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := WeekRange(tt.input)
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantFrom.AddDate(0, 0, 7)) {
				t.Errorf("to = %v, want %v", to, tt.wantFrom.AddDate(0, 0, 7))
			}
		})
	}
}
