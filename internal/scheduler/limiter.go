// Package scheduler drives the scene at a fixed logical rate from host
// frame signals that arrive at whatever rate the host manages.
package scheduler

import "time"

// DefaultInterval is the logical tick interval, 60 ticks per second.
const DefaultInterval = time.Second / 60

// Limiter accumulates host frame deltas and reports when a logical tick is
// due. The remainder after a tick is carried forward so the long-run tick
// rate does not drift.
type Limiter struct {
	interval time.Duration
	acc      time.Duration
}

// NewLimiter creates a limiter with the given interval. A non-positive
// interval ticks on every frame.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Advance adds delta and reports whether a tick fires. At most one tick
// fires per call however large delta is.
func (l *Limiter) Advance(delta time.Duration) bool {
	if delta > 0 {
		l.acc += delta
	}
	if l.interval <= 0 {
		l.acc = 0
		return true
	}
	if l.acc > l.interval {
		l.acc %= l.interval
		return true
	}
	return false
}

// Residual returns the time accumulated toward the next tick.
func (l *Limiter) Residual() time.Duration {
	return l.acc
}

// Interval returns the tick interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// SetInterval changes the tick interval, keeping the accumulator.
func (l *Limiter) SetInterval(interval time.Duration) {
	l.interval = interval
}

// Reset discards the accumulated time.
func (l *Limiter) Reset() {
	l.acc = 0
}
