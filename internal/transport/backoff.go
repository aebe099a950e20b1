package transport

import "time"

// Backoff produces the reconnection wait sequence: the initial interval,
// doubling after each failure, clamped at the ceiling. Not safe for
// concurrent use; the reconnection loop is the single owner.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	next    time.Duration
}

// NewBackoff returns a backoff starting at initial and capped at max.
func NewBackoff(initial, max time.Duration) *Backoff {
	return &Backoff{initial: initial, max: max, next: initial}
}

// Next returns the current interval and advances the sequence.
func (b *Backoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// Reset rewinds the sequence to the initial interval. Called after a
// successful connect.
func (b *Backoff) Reset() {
	b.next = b.initial
}
