package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so updated_at compares correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository stores values for every session in one sqlite database.
type Repository struct {
	db    *sql.DB
	nowFn func() time.Time
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Writes happen synchronously from the UI loop; one connection keeps
	// them ordered.
	db.SetMaxOpenConns(1)
	return &Repository{db: db, nowFn: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS session_values (
  session_id TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (session_id, key)
);
CREATE INDEX IF NOT EXISTS idx_session_values_updated_at ON session_values(updated_at);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails early when the database file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO session_values (session_id, key, value, updated_at) VALUES ('', '__write_check__', '', '')
ON CONFLICT(session_id, key) DO NOTHING
`); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// Scope returns the Store for one session.
func (r *Repository) Scope(sessionID string) *Scoped {
	return &Scoped{repo: r, sessionID: sessionID}
}

func (r *Repository) get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
SELECT value FROM session_values WHERE session_id = ? AND key = ?
`, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query session value %q: %w", key, err)
	}

	// Reading counts as activity so an open session is not purged.
	if _, err := r.db.ExecContext(ctx, `
UPDATE session_values SET updated_at = ? WHERE session_id = ?
`, r.now(), sessionID); err != nil {
		return "", false, fmt.Errorf("touch session %q: %w", sessionID, err)
	}
	return value, true, nil
}

func (r *Repository) set(ctx context.Context, sessionID, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO session_values (session_id, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(session_id, key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`, sessionID, key, value, r.now())
	if err != nil {
		return fmt.Errorf("save session value %q: %w", key, err)
	}
	return nil
}

// PurgeIdle deletes every session whose most recent activity is older than
// ttl and reports how many values were removed.
func (r *Repository) PurgeIdle(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	cutoff := r.nowFn().UTC().Add(-ttl).Format(timeLayout)
	res, err := r.db.ExecContext(ctx, `
DELETE FROM session_values
WHERE session_id IN (
  SELECT session_id FROM session_values
  GROUP BY session_id
  HAVING MAX(updated_at) < ?
)
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}
	return n, nil
}

func (r *Repository) now() string {
	return r.nowFn().UTC().Format(timeLayout)
}

// Scoped is a Store bound to one session id.
type Scoped struct {
	repo      *Repository
	sessionID string
}

func (s *Scoped) SessionID() string {
	return s.sessionID
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.repo.get(ctx, s.sessionID, key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.repo.set(ctx, s.sessionID, key, value)
}
