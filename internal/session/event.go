package session

import (
	"encoding/json"
	"fmt"
)

// wireEvent is the on-the-wire shape published by arcade devices.
// Device identity travels under the legacy "player" field names.
type wireEvent struct {
	Event      string `json:"event"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Decode parses and validates a raw event-bus payload.
//
// A payload must be a JSON object carrying three required fields:
// "event" (game_start or game_end), "playerId", and "playerName".
//
// Parameters:
//   - payload: Raw message bytes from the event bus
//
// Returns:
//   - Event: Validated domain event
//   - error: ErrMalformedPayload, ErrIncompleteMessage, or
//     ErrUnknownEventType describing the rejection
func Decode(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	switch {
	case w.Event == "":
		return Event{}, fmt.Errorf("%w: missing event", ErrIncompleteMessage)
	case w.PlayerID == "":
		return Event{}, fmt.Errorf("%w: missing playerId", ErrIncompleteMessage)
	case w.PlayerName == "":
		return Event{}, fmt.Errorf("%w: missing playerName", ErrIncompleteMessage)
	}

	kind := EventKind(w.Event)
	if kind != EventGameStart && kind != EventGameEnd {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, w.Event)
	}

	return Event{
		Kind:       kind,
		DeviceID:   w.PlayerID,
		DeviceName: w.PlayerName,
	}, nil
}
