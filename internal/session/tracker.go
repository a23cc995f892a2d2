package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playtrack/playtrack-core/internal/infrastructure/logging"
)

// Notifier receives a signal after every committed session change.
// Notify must not block; delivery is best-effort and failures never
// affect event processing.
type Notifier interface {
	Notify()
}

// NopNotifier is a Notifier that discards all signals.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify() {}

// UsageRecorder receives completed session durations for export to a
// time-series backend. Recording is best-effort; errors are handled by
// the recorder itself.
type UsageRecorder interface {
	RecordSessionClosed(deviceID, deviceName string, durationSeconds int64, endedAt time.Time)
}

// Tracker applies decoded game events to the session store, enforcing
// that each device has at most one open session.
//
// Tracker is not safe for concurrent use; events are applied in the
// order they arrive on the consuming goroutine.
type Tracker struct {
	repo     Repository
	notifier Notifier
	recorder UsageRecorder
	logger   *logging.Logger
	now      func() time.Time
}

// NewTracker creates a session tracker.
func NewTracker(repo Repository, notifier Notifier, logger *logging.Logger) *Tracker {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Tracker{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the tracker's time source. Used in tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// SetRecorder attaches a usage recorder for completed sessions.
func (t *Tracker) SetRecorder(r UsageRecorder) {
	t.recorder = r
}

// HandleMessage decodes a raw event payload and applies it. Payloads
// that fail decoding are logged and dropped; processing continues with
// the next message. Storage failures are returned to the caller.
func (t *Tracker) HandleMessage(ctx context.Context, payload []byte) error {
	event, err := Decode(payload)
	if err != nil {
		t.logger.Warn("dropping event",
			"reason", rejectReason(err),
			"error", err,
			"payload_bytes", len(payload),
		)
		return nil
	}
	return t.Handle(ctx, event)
}

// Handle applies a decoded event to the session store.
func (t *Tracker) Handle(ctx context.Context, event Event) error {
	switch event.Kind {
	case EventGameStart:
		return t.handleStart(ctx, event)
	case EventGameEnd:
		return t.handleEnd(ctx, event)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.Kind)
	}
}

// handleStart opens a new session for the device. If the device already
// has an open session it is closed first, so a lost game_end never
// leaves two sessions open.
func (t *Tracker) handleStart(ctx context.Context, event Event) error {
	open, err := t.repo.FindOpen(ctx, event.DeviceID)
	if err != nil && !errors.Is(err, ErrNoOpenSession) {
		return fmt.Errorf("checking open session: %w", err)
	}

	if open != nil {
		t.logger.Warn("closing stale session before new start",
			"device_id", event.DeviceID,
			"session_id", open.ID,
		)
		if err := t.closeSession(ctx, open); err != nil {
			return fmt.Errorf("closing stale session: %w", err)
		}
	}

	created, err := t.repo.Create(ctx, event.DeviceID, event.DeviceName, t.now().UTC())
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	t.logger.Info("session started",
		"device_id", created.DeviceID,
		"device_name", created.DeviceName,
		"session_id", created.ID,
	)
	t.notifier.Notify()
	return nil
}

// handleEnd closes the device's open session. An end with no matching
// open session is logged and dropped without notification.
func (t *Tracker) handleEnd(ctx context.Context, event Event) error {
	open, err := t.repo.FindOpen(ctx, event.DeviceID)
	if err != nil {
		if errors.Is(err, ErrNoOpenSession) {
			t.logger.Warn("no active session for game end",
				"device_id", event.DeviceID,
				"device_name", event.DeviceName,
			)
			return nil
		}
		return fmt.Errorf("checking open session: %w", err)
	}

	if err := t.closeSession(ctx, open); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}

	t.logger.Info("session ended",
		"device_id", open.DeviceID,
		"device_name", open.DeviceName,
		"session_id", open.ID,
	)
	t.notifier.Notify()
	return nil
}

// closeSession stamps the session's end time and duration. A clock that
// moved backwards yields a zero duration rather than a negative one.
func (t *Tracker) closeSession(ctx context.Context, open *Session) error {
	end := t.now().UTC()
	secs := int64(end.Sub(open.StartTime) / time.Second)
	if secs < 0 {
		t.logger.Warn("end time precedes start time, clamping duration to zero",
			"device_id", open.DeviceID,
			"session_id", open.ID,
			"start_time", open.StartTime,
			"end_time", end,
		)
		secs = 0
	}

	if err := t.repo.Close(ctx, open.ID, end, secs); err != nil {
		return err
	}

	if t.recorder != nil {
		t.recorder.RecordSessionClosed(open.DeviceID, open.DeviceName, secs, end)
	}
	return nil
}

// rejectReason maps a decode error to its stable rejection label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrIncompleteMessage):
		return "incomplete_message"
	case errors.Is(err, ErrUnknownEventType):
		return "unknown_event_type"
	default:
		return "malformed_payload"
	}
}
