// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowStandsStill(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	if got := fake.Now(); !got.Equal(testEpoch) {
		t.Errorf("Now: got %v, want %v", got, testEpoch)
	}

	fake.Advance(time.Minute)
	if got := fake.Now(); !got.Equal(testEpoch.Add(time.Minute)) {
		t.Errorf("Now after Advance: got %v, want %v", got, testEpoch.Add(time.Minute))
	}
}

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	ch := fake.After(time.Second)

	select {
	case <-ch:
		t.Fatal("After fired before Advance")
	default:
	}

	fake.Advance(time.Second)

	select {
	case fired := <-ch:
		if !fired.Equal(testEpoch.Add(time.Second)) {
			t.Errorf("fire time: got %v, want %v", fired, testEpoch.Add(time.Second))
		}
	default:
		t.Fatal("After did not fire after Advance")
	}
}

func TestFakeAfterZeroFiresImmediately(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeAfterFuncRunsSynchronouslyDuringAdvance(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	var ran bool
	fake.AfterFunc(100*time.Millisecond, func() { ran = true })

	fake.Advance(50 * time.Millisecond)
	if ran {
		t.Fatal("callback ran before its deadline")
	}

	fake.Advance(50 * time.Millisecond)
	if !ran {
		t.Fatal("callback did not run at its deadline")
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	var ran bool
	timer := fake.AfterFunc(time.Second, func() { ran = true })

	if !timer.Stop() {
		t.Error("Stop on a pending timer: got false, want true")
	}
	if timer.Stop() {
		t.Error("second Stop: got true, want false")
	}

	fake.Advance(2 * time.Second)
	if ran {
		t.Error("stopped timer still fired")
	}
}

func TestFakeAfterFuncReset(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	var count int
	timer := fake.AfterFunc(time.Second, func() { count++ })

	// Push the deadline out before it fires.
	if !timer.Reset(2 * time.Second) {
		t.Error("Reset on an active timer: got false, want true")
	}

	fake.Advance(time.Second)
	if count != 0 {
		t.Fatal("timer fired at original deadline despite Reset")
	}

	fake.Advance(time.Second)
	if count != 1 {
		t.Fatalf("timer fired %d times, want 1", count)
	}

	// Reset after firing re-arms the timer.
	if timer.Reset(time.Second) {
		t.Error("Reset on a fired timer: got true, want false")
	}
	fake.Advance(time.Second)
	if count != 2 {
		t.Fatalf("re-armed timer fired %d times total, want 2", count)
	}
}

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	var order []string
	fake.AfterFunc(2*time.Second, func() { order = append(order, "late") })
	fake.AfterFunc(time.Second, func() { order = append(order, "early") })

	fake.Advance(3 * time.Second)

	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("fire order: got %v, want [early late]", order)
	}
}

func TestFakeAfterFuncRegisteredDuringAdvance(t *testing.T) {
	t.Parallel()
	fake := Fake(testEpoch)

	var chained bool
	fake.AfterFunc(time.Second, func() {
		fake.AfterFunc(time.Second, func() { chained = true })
	})

	// The chained timer's deadline is measured from the advance
	// target, so it fires on the next Advance, not this one.
	fake.Advance(2 * time.Second)
	if chained {
		t.Fatal("chained timer fired within the registering Advance")
	}

	fake.Advance(time.Second)
	if !chained {
		t.Error("chained timer did not fire on the following Advance")
	}
}
