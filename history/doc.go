// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package history persists the panel's navigation state between runs:
// the last selected component per target, a short log of recent
// selections, and the tree expansion preferences. Everything here is a
// convenience cache — losing the database costs the user a few clicks,
// nothing more.
package history
