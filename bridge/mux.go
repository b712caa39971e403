// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"log/slog"
	"sync"

	"github.com/glasspane/glasspane/lib/codec"
)

// Mux is a channel-name → handler registry shared by bridge
// implementations. Handle may be called from any goroutine; Dispatch
// must be called from a single goroutine per bridge so handlers see
// messages in send order.
type Mux struct {
	mu       sync.Mutex
	handlers map[string][]*registration
	logger   *slog.Logger
}

// registration is a single Handle entry. Kept by pointer so removal
// can mark the entry dead without disturbing an in-flight dispatch.
type registration struct {
	handler Handler
	removed bool
}

// NewMux returns an empty registry. A nil logger means slog.Default().
func NewMux(logger *slog.Logger) *Mux {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mux{
		handlers: make(map[string][]*registration),
		logger:   logger,
	}
}

// Handle registers a handler for the named channel and returns its
// removal function. Removal is idempotent.
func (m *Mux) Handle(channel string, handler Handler) (remove func()) {
	entry := &registration{handler: handler}
	m.mu.Lock()
	m.handlers[channel] = append(m.handlers[channel], entry)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if entry.removed {
			return
		}
		entry.removed = true
		list := m.handlers[channel]
		for i, candidate := range list {
			if candidate == entry {
				m.handlers[channel] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// Dispatch invokes the channel's handlers in registration order.
// Messages on channels with no handler are dropped with a debug log —
// an agent may emit channels an older panel does not know.
func (m *Mux) Dispatch(channel string, payload codec.RawMessage) {
	m.mu.Lock()
	list := m.handlers[channel]
	snapshot := make([]*registration, len(list))
	copy(snapshot, list)
	m.mu.Unlock()

	if len(snapshot) == 0 {
		m.logger.Debug("bridge: no handler for channel", "channel", channel)
	}
	for _, entry := range snapshot {
		if entry.removed {
			continue
		}
		entry.handler(payload)
	}
}
