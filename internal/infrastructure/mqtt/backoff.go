package mqtt

import "time"

// Backoff computes reconnection delays for the connection manager.
//
// The delay starts at the initial value, doubles after each consecutive
// failure, and is capped at the maximum. A successful connection resets
// the sequence. With the defaults (5s initial, 60s cap) the sequence is
// 5, 10, 20, 40, 60, 60, ...
//
// Backoff is not safe for concurrent use; it is owned by the connection
// manager's run loop.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	next    time.Duration
}

// NewBackoff creates a Backoff with the given initial delay and cap.
// If max is below initial, initial is used as the cap.
func NewBackoff(initial, max time.Duration) *Backoff {
	if max < initial {
		max = initial
	}
	return &Backoff{
		initial: initial,
		max:     max,
		next:    initial,
	}
}

// Next returns the delay to wait before the next connection attempt and
// advances the sequence.
func (b *Backoff) Next() time.Duration {
	d := b.next

	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}

	return d
}

// Reset returns the sequence to the initial delay.
// Call after a successful connection.
func (b *Backoff) Reset() {
	b.next = b.initial
}
