// Package postgres implements sink.Store on a PostgreSQL table through pgx.
package postgres

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warp/employee-directory/sink"
)

// DB is the subset of *pgxpool.Pool the store calls.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
create table if not exists directory_exports (
  key          text primary key,
  content_type text not null default '',
  metadata     jsonb,
  etag         text not null,
  size         bigint not null,
  body         bytea not null,
  created_at   timestamptz not null default now()
);`

// Store keeps each object as one row.
type Store struct {
	db   DB
	pool *pgxpool.Pool
}

// New connects to dsn and creates the table if missing.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	st, err := NewWithDB(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	st.pool = pool
	return st, nil
}

// NewWithDB wraps an existing connection and migrates it.
func NewWithDB(ctx context.Context, db DB) (*Store, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the pool when the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Driver() sink.Driver { return sink.DriverPostgres }

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts sink.PutOptions) (sink.Info, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return sink.Info{}, err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return sink.Info{}, err
	}
	var metadata []byte
	if len(opts.Metadata) > 0 {
		if metadata, err = json.Marshal(opts.Metadata); err != nil {
			return sink.Info{}, err
		}
	}
	sum := sha256.Sum256(body)
	info := sink.Info{
		Key:          key,
		Size:         int64(len(body)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		Metadata:     sink.CloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}

	query := `
insert into directory_exports (key, content_type, metadata, etag, size, body, created_at)
values (@key, @content_type, @metadata, @etag, @size, @body, @created_at)
on conflict (key) do nothing;
`
	tag, err := s.db.Exec(ctx, query, pgx.NamedArgs{
		"key":          info.Key,
		"content_type": info.ContentType,
		"metadata":     metadata,
		"etag":         info.ETag,
		"size":         info.Size,
		"body":         body,
		"created_at":   info.LastModified,
	})
	if err != nil {
		return sink.Info{}, fmt.Errorf("db.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sink.Info{}, fmt.Errorf("%w: %s", sink.ErrExists, key)
	}
	return info, nil
}

func (s *Store) Get(ctx context.Context, key string) (sink.Info, io.ReadCloser, error) {
	query := `
select key, content_type, metadata, etag, size, created_at, body
from directory_exports
where key = $1;
`
	var (
		info     sink.Info
		metadata []byte
		body     []byte
	)
	err := s.db.QueryRow(ctx, query, key).
		Scan(&info.Key, &info.ContentType, &metadata, &info.ETag, &info.Size, &info.LastModified, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return sink.Info{}, nil, fmt.Errorf("%w: %s", sink.ErrNotFound, key)
	}
	if err != nil {
		return sink.Info{}, nil, fmt.Errorf("db.QueryRow: %w", err)
	}
	if err := decodeMetadata(&info, metadata); err != nil {
		return sink.Info{}, nil, err
	}
	return info, io.NopCloser(bytes.NewReader(body)), nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := s.db.Exec(ctx, `delete from directory_exports where key = $1;`, key)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]sink.Info, error) {
	query := `
select key, content_type, metadata, etag, size, created_at
from directory_exports
where starts_with(key, $1)
order by key;
`
	rows, err := s.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var out []sink.Info
	for rows.Next() {
		var (
			info     sink.Info
			metadata []byte
		)
		if err := rows.Scan(&info.Key, &info.ContentType, &metadata, &info.ETag, &info.Size, &info.LastModified); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		if err := decodeMetadata(&info, metadata); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func decodeMetadata(info *sink.Info, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &info.Metadata); err != nil {
		return fmt.Errorf("decode metadata of %s: %w", info.Key, err)
	}
	return nil
}
