package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/sink/sinktest"
)

// fakeDB answers the store's statements from a map keyed by object key.
type fakeDB struct {
	mu       sync.Mutex
	rows     map[string][]any // key, content_type, metadata, etag, size, created_at, body
	migrated bool
}

func newFakeDB() *fakeDB { return &fakeDB{rows: map[string][]any{}} }

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(sql, "create table"):
		f.migrated = true
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.Contains(sql, "insert into"):
		a := args[0].(pgx.NamedArgs)
		key := a["key"].(string)
		if _, ok := f.rows[key]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		f.rows[key] = []any{key, a["content_type"], a["metadata"], a["etag"], a["size"], a["created_at"], a["body"]}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "delete from"):
		key := args[0].(string)
		if _, ok := f.rows[key]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.rows, key)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement: %s", sql)
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: row}
}

func (f *fakeDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := args[0].(string)
	var keys []string
	for k := range f.rows {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &fakeRows{}
	for _, k := range keys {
		out.data = append(out.data, f.rows[k][:6])
	}
	return out, nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type fakeRows struct {
	data [][]any
	cur  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.cur++; return r.cur <= len(r.data) }
func (r *fakeRows) Scan(dest ...any) error                       { return assign(dest, r.data[r.cur-1]) }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.cur-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return errors.New("column count mismatch")
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func TestStore(t *testing.T) {
	db := newFakeDB()
	st, err := NewWithDB(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, db.migrated)
	assert.Equal(t, sink.DriverPostgres, st.Driver())

	sinktest.Run(t, st)
}

func TestStore_TimestampRoundTrip(t *testing.T) {
	// GIVEN: A stored object
	st, err := NewWithDB(context.Background(), newFakeDB())
	require.NoError(t, err)
	before := time.Now().UTC()
	_, err = st.Put(context.Background(), "exports/t.csv", strings.NewReader("x"), sink.PutOptions{})
	require.NoError(t, err)

	// WHEN: Listing it back
	list, err := st.List(context.Background(), "exports/")

	// THEN: created_at is carried as LastModified, no metadata
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].LastModified.Before(before))
	assert.Nil(t, list[0].Metadata)
}

type brokenDB struct{ *fakeDB }

func (brokenDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("permission denied for schema public")
}

func TestNewWithDB_MigrationFailure(t *testing.T) {
	_, err := NewWithDB(context.Background(), brokenDB{newFakeDB()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}
