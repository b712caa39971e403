// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package router abstracts the navigation layer the inspector mirrors
// its selection into. The selected component's identifier lives in a
// route parameter; user clicks write the parameter, and the observed
// parameter change is what actually drives loading. That indirection
// makes the route the single source of truth for "what is selected"
// and lets deep links and panel clicks flow through one code path.
//
// The in-memory implementation here is what the glasspane binary
// uses. An embedding host with a real URL router implements the
// Router interface over it instead.
package router

import "sync"

// ParamComponentID is the route parameter holding the selected
// component's identifier.
const ParamComponentID = "componentId"

// Router is the navigation surface the inspector depends on.
type Router interface {
	// Param returns the current value of a route parameter, or ""
	// when unset.
	Param(name string) string

	// SetParam sets a route parameter and notifies watchers
	// synchronously before returning. Setting the current value
	// again still notifies — re-navigation to the same place is an
	// observable event.
	SetParam(name, value string)

	// WatchParam registers a callback invoked with the new value on
	// every SetParam for the named parameter. The returned function
	// removes the registration.
	WatchParam(name string, callback func(value string)) (remove func())
}

// Compile-time interface check.
var _ Router = (*Memory)(nil)

// Memory is an in-process Router. Watch callbacks run synchronously
// on the goroutine calling SetParam; a callback must not call
// SetParam for the same parameter.
type Memory struct {
	mu       sync.Mutex
	params   map[string]string
	watchers map[string][]*watcher
}

type watcher struct {
	callback func(string)
	removed  bool
}

// NewMemory returns an empty in-memory router.
func NewMemory() *Memory {
	return &Memory{
		params:   make(map[string]string),
		watchers: make(map[string][]*watcher),
	}
}

// Param implements Router.
func (m *Memory) Param(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params[name]
}

// SetParam implements Router.
func (m *Memory) SetParam(name, value string) {
	m.mu.Lock()
	m.params[name] = value
	list := m.watchers[name]
	snapshot := make([]*watcher, len(list))
	copy(snapshot, list)
	m.mu.Unlock()

	for _, entry := range snapshot {
		if entry.removed {
			continue
		}
		entry.callback(value)
	}
}

// WatchParam implements Router.
func (m *Memory) WatchParam(name string, callback func(string)) (remove func()) {
	entry := &watcher{callback: callback}
	m.mu.Lock()
	m.watchers[name] = append(m.watchers[name], entry)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if entry.removed {
			return
		}
		entry.removed = true
		list := m.watchers[name]
		for i, candidate := range list {
			if candidate == entry {
				m.watchers[name] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}
