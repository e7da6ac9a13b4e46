// Package clock supplies the monotonic timestamps stamped on every event.
//
// Timestamps are int64 nanoseconds on an arbitrary but fixed origin. Only
// differences between two readings of the same Clock are meaningful.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns monotonic nanosecond readings.
//
// Implementations must be safe for concurrent use: every recording
// goroutine reads the same Clock.
type Clock interface {
	Now() int64
}

// Monotonic reads the runtime's monotonic clock relative to the instant it
// was created. Wall-clock adjustments never affect its readings.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic returns a Monotonic clock whose origin is now.
func NewMonotonic() Monotonic {
	return Monotonic{origin: time.Now()}
}

// Now returns nanoseconds elapsed since the clock's origin.
func (m Monotonic) Now() int64 {
	return int64(time.Since(m.origin))
}

// Manual is a settable clock for deterministic tests.
// The zero value reads 0.
type Manual struct {
	now atomic.Int64
}

// Now returns the current manual reading.
func (m *Manual) Now() int64 {
	return m.now.Load()
}

// Set moves the clock to t.
func (m *Manual) Set(t int64) {
	m.now.Store(t)
}

// Advance moves the clock forward by d and returns the new reading.
func (m *Manual) Advance(d time.Duration) int64 {
	return m.now.Add(int64(d))
}
