// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code
// injects Real(); tests inject Fake() and advance time explicitly.
//
// Glasspane uses the clock for exactly one thing today: debouncing
// tree-filter changes before re-requesting the root tree. Keeping the
// abstraction here (rather than calling time.AfterFunc directly in
// the inspector client) lets the debounce tests run deterministically
// with no real sleeps.
package clock
