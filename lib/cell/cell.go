// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package cell

// Cell is a mutable value with synchronous change notification.
// The zero value is usable and holds the zero value of T.
type Cell[T any] struct {
	value     T
	observers []*observer[T]
}

// observer is a single OnChange registration. Kept by pointer so an
// unsubscribe can mark its own entry dead without disturbing the
// iteration order of a notification already in flight.
type observer[T any] struct {
	callback func(T)
	removed  bool
}

// New returns a Cell holding the given initial value.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set stores a new value and notifies every observer synchronously,
// in registration order, before returning. Set does not compare the
// new value with the old one: every Set notifies. Callers that need
// set-if-changed semantics compare before calling.
func (c *Cell[T]) Set(value T) {
	c.value = value

	// Iterate over a snapshot of the slice header. Observers added
	// during notification are not invoked for this change; observers
	// removed during notification are skipped via the removed flag.
	current := c.observers
	for _, entry := range current {
		if entry.removed {
			continue
		}
		entry.callback(value)
	}
}

// OnChange registers a callback invoked on every Set. The returned
// function removes the registration; calling it more than once is
// harmless.
func (c *Cell[T]) OnChange(callback func(T)) (remove func()) {
	entry := &observer[T]{callback: callback}
	c.observers = append(c.observers, entry)
	return func() {
		if entry.removed {
			return
		}
		entry.removed = true
		for i, candidate := range c.observers {
			if candidate == entry {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				break
			}
		}
	}
}

// Watch registers a callback and, when immediate is true, invokes it
// once with the current value before returning. The returned function
// removes the registration.
func (c *Cell[T]) Watch(immediate bool, callback func(T)) (remove func()) {
	remove = c.OnChange(callback)
	if immediate {
		callback(c.value)
	}
	return remove
}

// Computed is a read-only view derived from one or more source cells.
// The derived value is recomputed eagerly whenever any source changes,
// and observers see the recomputed value.
type Computed[T any] struct {
	inner   Cell[T]
	compute func() T
	removes []func()
}

// Derive builds a Computed that recomputes via compute whenever any
// of the given sources signals a change. The sources are registered
// through their Signal method so cells of different value types can
// feed one derivation.
func Derive[T any](compute func() T, sources ...Source) *Computed[T] {
	derived := &Computed[T]{compute: compute}
	derived.inner.value = compute()
	for _, source := range sources {
		remove := source.Signal(func() {
			derived.inner.Set(derived.compute())
		})
		derived.removes = append(derived.removes, remove)
	}
	return derived
}

// Get returns the current derived value.
func (d *Computed[T]) Get() T {
	return d.inner.Get()
}

// OnChange registers a callback invoked after every recomputation.
func (d *Computed[T]) OnChange(callback func(T)) (remove func()) {
	return d.inner.OnChange(callback)
}

// Release detaches the Computed from its sources. After Release the
// derived value no longer updates.
func (d *Computed[T]) Release() {
	for _, remove := range d.removes {
		remove()
	}
	d.removes = nil
}

// Source is the type-erased face of a cell: something that can signal
// "my value changed" without exposing the value's type. Both Cell[T]
// and Computed[T] implement it.
type Source interface {
	Signal(callback func()) (remove func())
}

// Signal implements Source.
func (c *Cell[T]) Signal(callback func()) (remove func()) {
	return c.OnChange(func(T) { callback() })
}

// Signal implements Source.
func (d *Computed[T]) Signal(callback func()) (remove func()) {
	return d.inner.Signal(callback)
}
