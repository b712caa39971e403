// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package router

import "testing"

func TestMemoryParamRoundTrip(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	if got := m.Param(ParamComponentID); got != "" {
		t.Errorf("unset param: got %q, want empty", got)
	}

	m.SetParam(ParamComponentID, "1-0")
	if got := m.Param(ParamComponentID); got != "1-0" {
		t.Errorf("param: got %q, want %q", got, "1-0")
	}
}

func TestMemoryWatchNotifiedSynchronously(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	var seen []string
	m.WatchParam(ParamComponentID, func(value string) {
		seen = append(seen, value)
	})

	m.SetParam(ParamComponentID, "a")
	m.SetParam(ParamComponentID, "b")
	// Same value again still notifies: re-navigation is observable.
	m.SetParam(ParamComponentID, "b")

	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "b" {
		t.Errorf("watch values: got %v, want [a b b]", seen)
	}
}

func TestMemoryWatchRemove(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	var count int
	remove := m.WatchParam(ParamComponentID, func(string) { count++ })

	m.SetParam(ParamComponentID, "a")
	remove()
	remove()
	m.SetParam(ParamComponentID, "b")

	if count != 1 {
		t.Errorf("watcher invoked %d times after removal, want 1", count)
	}
}

func TestMemoryWatchScopedToParam(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	var count int
	m.WatchParam(ParamComponentID, func(string) { count++ })

	m.SetParam("otherParam", "x")

	if count != 0 {
		t.Errorf("watcher fired for unrelated param %d times, want 0", count)
	}
}
