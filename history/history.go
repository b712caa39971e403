// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/glasspane/glasspane/lib/clock"
	"github.com/glasspane/glasspane/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS last_selection (
    target_id    TEXT PRIMARY KEY,
    component_id TEXT NOT NULL,
    selected_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS selection_log (
    target_id    TEXT NOT NULL,
    component_id TEXT NOT NULL,
    selected_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS selection_log_target
    ON selection_log (target_id, selected_at DESC);

CREATE TABLE IF NOT EXISTS expansion_state (
    target_id  TEXT PRIMARY KEY,
    states     TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// logKeep bounds the per-target selection log. Older entries are
// pruned on insert.
const logKeep = 100

// Selection is one entry of the recent-selection log.
type Selection struct {
	ComponentID string
	SelectedAt  time.Time
}

// Store persists navigation history in a local SQLite database.
type Store struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock injects the clock used for timestamps. The default is the
// real clock.
func WithClock(clk clock.Clock) Option {
	return func(s *Store) { s.clock = clk }
}

// Open opens (and if needed creates) the history database at path.
func Open(path string, options ...Option) (*Store, error) {
	s := &Store{
		clock:  clock.Real(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   path,
		Logger: s.logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// RecordSelection stores componentID as the last selection for the
// target and appends it to the recent log, pruning entries beyond
// logKeep.
func (s *Store) RecordSelection(ctx context.Context, targetID, componentID string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	now := s.clock.Now().UnixMilli()
	err = sqlitex.Execute(conn, `
		INSERT INTO last_selection (target_id, component_id, selected_at)
		VALUES (?, ?, ?)
		ON CONFLICT (target_id) DO UPDATE SET
			component_id = excluded.component_id,
			selected_at  = excluded.selected_at`,
		&sqlitex.ExecOptions{Args: []any{targetID, componentID, now}})
	if err != nil {
		return fmt.Errorf("history: record selection: %w", err)
	}

	err = sqlitex.Execute(conn, `
		INSERT INTO selection_log (target_id, component_id, selected_at)
		VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{targetID, componentID, now}})
	if err != nil {
		return fmt.Errorf("history: append selection log: %w", err)
	}

	err = sqlitex.Execute(conn, `
		DELETE FROM selection_log
		WHERE target_id = ?1 AND rowid NOT IN (
			SELECT rowid FROM selection_log
			WHERE target_id = ?1
			ORDER BY selected_at DESC, rowid DESC
			LIMIT ?2
		)`,
		&sqlitex.ExecOptions{Args: []any{targetID, logKeep}})
	if err != nil {
		return fmt.Errorf("history: prune selection log: %w", err)
	}
	return nil
}

// LastSelection returns the most recently recorded selection for the
// target. ok is false when none was ever recorded.
func (s *Store) LastSelection(ctx context.Context, targetID string) (componentID string, ok bool, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return "", false, err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"SELECT component_id FROM last_selection WHERE target_id = ?",
		&sqlitex.ExecOptions{
			Args: []any{targetID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				componentID = stmt.ColumnText(0)
				ok = true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("history: last selection: %w", err)
	}
	return componentID, ok, nil
}

// RecentSelections returns up to limit recent selections for the
// target, newest first.
func (s *Store) RecentSelections(ctx context.Context, targetID string, limit int) ([]Selection, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var selections []Selection
	err = sqlitex.Execute(conn, `
		SELECT component_id, selected_at FROM selection_log
		WHERE target_id = ?
		ORDER BY selected_at DESC, rowid DESC
		LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{targetID, limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				selections = append(selections, Selection{
					ComponentID: stmt.ColumnText(0),
					SelectedAt:  time.UnixMilli(stmt.ColumnInt64(1)),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("history: recent selections: %w", err)
	}
	return selections, nil
}

// SaveExpansion persists the expansion preferences for a target.
func (s *Store) SaveExpansion(ctx context.Context, targetID string, states map[string]bool) error {
	encoded, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("history: encode expansion state: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO expansion_state (target_id, states, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (target_id) DO UPDATE SET
			states     = excluded.states,
			updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{targetID, string(encoded), s.clock.Now().UnixMilli()}})
	if err != nil {
		return fmt.Errorf("history: save expansion state: %w", err)
	}
	return nil
}

// LoadExpansion returns the persisted expansion preferences for a
// target, or an empty map when none were saved.
func (s *Store) LoadExpansion(ctx context.Context, targetID string) (map[string]bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var encoded string
	found := false
	err = sqlitex.Execute(conn,
		"SELECT states FROM expansion_state WHERE target_id = ?",
		&sqlitex.ExecOptions{
			Args: []any{targetID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				encoded = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("history: load expansion state: %w", err)
	}
	if !found {
		return map[string]bool{}, nil
	}

	states := make(map[string]bool)
	if err := json.Unmarshal([]byte(encoded), &states); err != nil {
		return nil, fmt.Errorf("history: decode expansion state: %w", err)
	}
	return states, nil
}
