// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides small helpers shared by Glasspane tests:
// channel receive/send with timeout safety valves. The helpers accept
// a minimal testing interface (Helper + Fatalf) so they work with
// *testing.T and *testing.B alike.
package testutil
