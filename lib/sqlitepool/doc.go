// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool Glasspane
// uses for local persistence (selection history, expansion state).
//
// It wraps zombiezen.com/go/sqlite with the pragmas a local UI cache
// wants: WAL journal mode so the reader goroutine never blocks the
// writer, NORMAL synchronous because everything stored here can be
// regenerated by clicking around, and a busy timeout instead of
// immediate SQLITE_BUSY errors.
//
// Callers [Pool.Take] a connection, work, and [Pool.Put] it back.
// Connections are not safe for concurrent use; each goroutine holds
// its own for the duration of its work. The package is deliberately
// thin — services write SQL with sqlitex directly, there is no query
// builder on top.
package sqlitepool
