// Package sqlitestore persists session widget state in SQLite so a session can
// be resumed by a later process. Rows are partitioned by session id.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formstate/pkg/identity"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS widget_state (
	session_id  TEXT NOT NULL,
	widget_id   TEXT NOT NULL,
	value       TEXT,
	present     INTEGER NOT NULL,
	from_user   INTEGER NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (session_id, widget_id)
);
`

// DB owns the database handle shared by every session store opened from it.
type DB struct {
	db *sql.DB
}

// OpenDB opens (or creates) the database at path and runs migrations. Use
// ":memory:" for a throwaway database.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Session returns the store for sessionID.
func (d *DB) Session(sessionID string) *Store {
	return &Store{db: d.db, sessionID: sessionID}
}

// Factory adapts the database into a session.StoreFactory.
func (d *DB) Factory() session.StoreFactory {
	return func(sessionID string) (session.Store, error) {
		if sessionID == "" {
			return nil, errors.New("sqlitestore: session id is required")
		}
		return d.Session(sessionID), nil
	}
}

// Store implements session.Store for one session.
type Store struct {
	db        *sql.DB
	sessionID string
}

var _ session.Store = (*Store)(nil)

func (s *Store) Load(ctx context.Context, id identity.ID) (session.State, bool, error) {
	var (
		value    sql.NullString
		present  bool
		fromUser bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, present, from_user FROM widget_state WHERE session_id = ? AND widget_id = ?`,
		s.sessionID, string(id),
	).Scan(&value, &present, &fromUser)
	if errors.Is(err, sql.ErrNoRows) {
		return session.State{}, false, nil
	}
	if err != nil {
		return session.State{}, false, fmt.Errorf("load widget state: %w", err)
	}

	state := session.State{FromUserInteraction: fromUser}
	if present {
		state.Value = model.Some(value.String)
	}
	return state, true, nil
}

func (s *Store) Save(ctx context.Context, id identity.ID, state session.State) error {
	var value any
	if text, ok := state.Value.Get(); ok {
		value = text
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO widget_state (session_id, widget_id, value, present, from_user, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (session_id, widget_id) DO UPDATE SET
		   value = excluded.value,
		   present = excluded.present,
		   from_user = excluded.from_user,
		   updated_at = excluded.updated_at`,
		s.sessionID, string(id), value, state.Value.Has(), state.FromUserInteraction,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save widget state: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id identity.ID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM widget_state WHERE session_id = ? AND widget_id = ?`,
		s.sessionID, string(id),
	)
	if err != nil {
		return fmt.Errorf("delete widget state: %w", err)
	}
	return nil
}

func (s *Store) IDs(ctx context.Context) ([]identity.ID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT widget_id FROM widget_state WHERE session_id = ? ORDER BY widget_id`,
		s.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list widget ids: %w", err)
	}
	defer rows.Close()

	var ids []identity.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan widget id: %w", err)
		}
		ids = append(ids, identity.ID(id))
	}
	return ids, rows.Err()
}
