package feed

import "time"

// Backoff is a capped exponential reconnect delay. Not safe for
// concurrent use; each connector owns its own instance.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration

	attempt int
}

// Next returns the delay for the current attempt and advances the
// counter: Base, 2*Base, 4*Base, ... capped at Cap.
func (b *Backoff) Next() time.Duration {
	d := b.Base << b.attempt
	if d > b.Cap || d <= 0 {
		d = b.Cap
	}
	b.attempt++
	return d
}

// Attempts reports how many delays have been handed out since the last
// reset.
func (b *Backoff) Attempts() int { return b.attempt }

// Reset clears the attempt counter after a successful connection.
func (b *Backoff) Reset() { b.attempt = 0 }
