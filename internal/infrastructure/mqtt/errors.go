package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when a connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrSubscribeFailed is returned when the topic subscription fails.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrAlreadyRunning is returned when Run is called on a client whose
	// loop is already active.
	ErrAlreadyRunning = errors.New("mqtt: client already running")
)
