// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package cell provides the reactive primitives the inspector state
// layer is built on: a mutable value cell with synchronous change
// notification, a computed read-only view derived from other cells,
// and a watcher helper with an optional immediate first run.
//
// Cells are deliberately dumb: no locking, no scheduling, no change
// batching. Notification happens synchronously inside Set, in
// subscription order, on the caller's goroutine. The single-threaded
// discipline (all mutation from one callback context) is the
// responsibility of the owning component — see inspector.Client,
// which serializes every mutation under one mutex.
//
// A watcher callback must not mutate the cell it observes. Reentrant
// Set on the same cell from inside its own notification is a design
// error and the resulting callback order is unspecified.
package cell
