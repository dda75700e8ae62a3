package core

import (
	"golang.org/x/sys/unix"
)

const nanosecondsPerSecond = 1000 * 1000 * 1000

// Timespec is a point on a clock, split into whole seconds
// and the nanoseconds past that second
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Clock is a source of time points
type Clock interface {
	Now() Timespec
}

// MonotonicClock reads CLOCK_MONOTONIC, which never goes backwards
// when the wall clock is adjusted
type MonotonicClock struct{}

// Now implements interface
func (MonotonicClock) Now() Timespec {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(err) // CLOCK_MONOTONIC is always available on supported platforms
	}
	return Timespec{
		Sec:  int64(ts.Sec),
		Nsec: int64(ts.Nsec),
	}
}

// NewTimer creates a timer that is already reset
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = MonotonicClock{}
	}
	t := &Timer{clock: clock}
	t.Reset()
	return t
}

// Timer measures seconds passed since its last Reset
type Timer struct {
	clock Clock
	start Timespec
}

// Reset captures the baseline
func (t *Timer) Reset() {
	t.start = t.clock.Now()
}

// Elapsed returns seconds since the last Reset, with nanosecond resolution
func (t *Timer) Elapsed() float64 {
	now := t.clock.Now()

	s := now.Sec - t.start.Sec
	var ns int64
	if now.Nsec > t.start.Nsec {
		ns = now.Nsec - t.start.Nsec
	} else {
		// borrow a second
		s--
		ns = nanosecondsPerSecond - (t.start.Nsec - now.Nsec)
	}

	return float64(s) + float64(ns)/float64(nanosecondsPerSecond)
}
