package session

import "errors"

// Decode rejection reasons. The tracker logs these at warning level and
// drops the message; the event bus is not asked to redeliver.
var (
	// ErrMalformedPayload is returned when a payload is not valid JSON.
	ErrMalformedPayload = errors.New("session: malformed payload")

	// ErrIncompleteMessage is returned when a required field is missing.
	ErrIncompleteMessage = errors.New("session: incomplete message")

	// ErrUnknownEventType is returned for an event outside the known set.
	ErrUnknownEventType = errors.New("session: unknown event type")
)

// Store errors.
var (
	// ErrNoOpenSession is returned by FindOpen when the device has no
	// session with an absent end time.
	ErrNoOpenSession = errors.New("session: no open session")

	// ErrSessionNotFound is returned by Close when the session does not
	// exist or was already closed.
	ErrSessionNotFound = errors.New("session: not found or already closed")
)
