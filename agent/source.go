// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"sync"

	"github.com/glasspane/glasspane/inspector"
)

// Source is where an Agent reads the component tree it serves. Roots
// returns complete trees; the Agent applies depth limits and filtering
// when serializing them for the wire. Detail returns the inspected
// state of one component.
//
// Implementations must be safe for concurrent use: the Agent calls
// from its bridge dispatch goroutine while the host mutates from its
// own.
type Source interface {
	Roots() []inspector.SerializedNode
	Detail(id string) (inspector.DetailData, bool)
}

// StaticSource is an in-memory Source. The host replaces roots and
// details wholesale and calls the Agent's notify methods afterwards.
type StaticSource struct {
	mu      sync.Mutex
	roots   []inspector.SerializedNode
	details map[string]inspector.DetailData
}

// NewStaticSource returns an empty source.
func NewStaticSource() *StaticSource {
	return &StaticSource{details: make(map[string]inspector.DetailData)}
}

// Roots implements Source.
func (s *StaticSource) Roots() []inspector.SerializedNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roots
}

// Detail implements Source.
func (s *StaticSource) Detail(id string) (inspector.DetailData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.details[id]
	return data, ok
}

// SetRoots replaces the tree.
func (s *StaticSource) SetRoots(roots []inspector.SerializedNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = roots
}

// SetDetail replaces one component's inspected state.
func (s *StaticSource) SetDetail(data inspector.DetailData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[data.ID] = data
}

// RemoveDetail drops one component's inspected state.
func (s *StaticSource) RemoveDetail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.details, id)
}
