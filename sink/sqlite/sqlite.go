/*
Package sqlite provides a SQLite-backed export sink.

PURPOSE:
  Keeps rendered export documents in a single table so a single-node
  deployment can list and re-download past exports without a bucket.

KEY TABLES:
  exports: one row per object (key, attributes, body blob)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql. SQLite is
  opened in WAL mode so readers don't block the writer.

USAGE:
  st, err := sqlite.New("./data/exports.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - sink/sink.go: Store interface
  - sink/postgres: same table on PostgreSQL
*/
package sqlite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/warp/employee-directory/sink"
)

// Store implements sink.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would be its own database.
	db.SetMaxOpenConns(1)

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exports (
		key TEXT PRIMARY KEY,
		content_type TEXT NOT NULL DEFAULT '',
		metadata_json TEXT,
		etag TEXT NOT NULL,
		size INTEGER NOT NULL,
		body BLOB NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Driver() sink.Driver { return sink.DriverSQLite }

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts sink.PutOptions) (sink.Info, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return sink.Info{}, err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return sink.Info{}, err
	}
	metadataJSON, err := json.Marshal(opts.Metadata)
	if err != nil {
		return sink.Info{}, err
	}
	sum := sha256.Sum256(body)
	info := sink.Info{
		Key:          key,
		Size:         int64(len(body)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		Metadata:     sink.CloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC().Truncate(time.Second),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exports (key, content_type, metadata_json, etag, size, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.Key, info.ContentType, string(metadataJSON), info.ETag, info.Size, body,
		info.LastModified.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return sink.Info{}, fmt.Errorf("%w: %s", sink.ErrExists, key)
		}
		return sink.Info{}, fmt.Errorf("failed to insert export: %w", err)
	}
	return info, nil
}

func (s *Store) Get(ctx context.Context, key string) (sink.Info, io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		info         sink.Info
		metadataJSON sql.NullString
		createdAt    string
		body         []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT key, content_type, metadata_json, etag, size, created_at, body FROM exports WHERE key = ?",
		key,
	).Scan(&info.Key, &info.ContentType, &metadataJSON, &info.ETag, &info.Size, &createdAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return sink.Info{}, nil, fmt.Errorf("%w: %s", sink.ErrNotFound, key)
	}
	if err != nil {
		return sink.Info{}, nil, err
	}
	if err := decodeRow(&info, metadataJSON, createdAt); err != nil {
		return sink.Info{}, nil, err
	}
	return info, io.NopCloser(bytes.NewReader(body)), nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM exports WHERE key = ?", key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) List(ctx context.Context, prefix string) ([]sink.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, content_type, metadata_json, etag, size, created_at
		FROM exports
		WHERE substr(key, 1, length(?)) = ?
		ORDER BY key`,
		prefix, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sink.Info
	for rows.Next() {
		var (
			info         sink.Info
			metadataJSON sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&info.Key, &info.ContentType, &metadataJSON, &info.ETag, &info.Size, &createdAt); err != nil {
			return nil, err
		}
		if err := decodeRow(&info, metadataJSON, createdAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Helper functions

func decodeRow(info *sink.Info, metadataJSON sql.NullString, createdAt string) error {
	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &info.Metadata); err != nil {
			return fmt.Errorf("decode metadata of %s: %w", info.Key, err)
		}
	}
	info.LastModified, _ = time.Parse(time.RFC3339, createdAt)
	return nil
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
