package mqtt

import (
	"testing"
	"time"
)

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff(5*time.Second, 60*time.Second)

	want := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		60 * time.Second,
		60 * time.Second,
		60 * time.Second,
	}

	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("Next() #%d = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff(5*time.Second, 60*time.Second)

	// Advance past a few failures.
	b.Next()
	b.Next()
	b.Next()

	b.Reset()

	if got := b.Next(); got != 5*time.Second {
		t.Errorf("Next() after Reset() = %v, want 5s", got)
	}
	if got := b.Next(); got != 10*time.Second {
		t.Errorf("Next() after reset sequence = %v, want 10s", got)
	}
}

func TestBackoffCapBelowInitial(t *testing.T) {
	b := NewBackoff(10*time.Second, 5*time.Second)

	if got := b.Next(); got != 10*time.Second {
		t.Errorf("Next() = %v, want initial 10s", got)
	}
	if got := b.Next(); got != 10*time.Second {
		t.Errorf("Next() = %v, want capped 10s", got)
	}
}
