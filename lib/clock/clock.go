// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source injected into anything that debounces,
// ticks, or timestamps. Binaries run on Real(); tests run on Fake()
// and drive it with Advance, so debounce windows elapse instantly and
// deterministically.
type Clock interface {
	// Now returns the clock's current time.
	Now() time.Time

	// After returns a channel that delivers the clock's time once d
	// has elapsed. A non-positive d delivers immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc schedules f to run once d has elapsed. The returned
	// Timer can Stop the pending call or Reset the delay; the filter
	// debounce leans on Reset to push the deadline out on every
	// keystroke.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is the handle to one scheduled event. Timers from AfterFunc
// carry no channel: C is nil and the event is the callback itself.
type Timer struct {
	C <-chan time.Time

	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop cancels the pending event. It reports false when the timer
// already fired or was stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset reschedules the event d from now and reports whether the
// timer was still pending.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }
