package utils

import "time"

// Clock abstracts the wall clock so TTL and retry logic can be tested
// with a manually advanced time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// NewSystemClock returns the default Clock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}
