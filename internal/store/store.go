// Package store persists resolved ACL results in SQLite, keyed by file
// path and content hash. Repeated CLI runs and watch sweeps over a
// large tree skip files whose content has not changed since the stored
// resolution.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/guardline-dev/guardline/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS acl_results (
	path         TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	resolved_at  INTEGER NOT NULL,
	result       TEXT NOT NULL,
	PRIMARY KEY (path, content_hash)
);
CREATE INDEX IF NOT EXISTS idx_acl_results_time ON acl_results(resolved_at);
`

// Store is a SQLite-backed result cache. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.guardline/results.db, creating the directory
// if needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".guardline")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, "results.db"), nil
}

// Open opens or creates the result store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init result store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashText returns the content hash key for a document's text.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(h[:])
}

// Get returns the stored result for (path, hash), or false when the
// file changed or was never resolved.
func (s *Store) Get(ctx context.Context, path, hash string) (*engine.Result, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT result FROM acl_results WHERE path = ? AND content_hash = ?",
		path, hash).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("result store get: %w", err)
	}

	var result engine.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// A corrupt row is treated as a miss, not a failure: the
		// caller recomputes and overwrites it.
		return nil, false, nil
	}
	return &result, true, nil
}

// Put stores a result for (path, hash), dropping stale rows for other
// hashes of the same path.
func (s *Store) Put(ctx context.Context, path, hash string, result *engine.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result store encode: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("result store put: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM acl_results WHERE path = ? AND content_hash != ?",
		path, hash); err != nil {
		return fmt.Errorf("result store prune path: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO acl_results (path, content_hash, resolved_at, result)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (path, content_hash) DO UPDATE SET
		   resolved_at = excluded.resolved_at,
		   result = excluded.result`,
		path, hash, time.Now().Unix(), string(raw)); err != nil {
		return fmt.Errorf("result store put: %w", err)
	}
	return tx.Commit()
}

// Forget drops every stored result for a path. Used when the file is
// deleted.
func (s *Store) Forget(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM acl_results WHERE path = ?", path); err != nil {
		return fmt.Errorf("result store forget: %w", err)
	}
	return nil
}

// Prune removes results older than the retention period. Returns the
// number of rows dropped.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM acl_results WHERE resolved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("result store prune: %w", err)
	}
	return res.RowsAffected()
}
