// Package sinktest holds the behavior every sink.Store driver must share.
package sinktest

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/sink"
)

// Run exercises put, get, list, delete and create-only semantics against st.
// st must be empty.
func Run(t *testing.T, st sink.Store) {
	t.Helper()
	ctx := context.Background()

	// GIVEN: Two exports and one unrelated object
	opts := sink.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"rows": "2"}}
	info, err := st.Put(ctx, "exports/a/employees.csv", strings.NewReader("ID\n1\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "exports/a/employees.csv", info.Key)
	assert.Equal(t, int64(5), info.Size)

	_, err = st.Put(ctx, "exports/b/employees.csv", strings.NewReader("ID\n2\n"), opts)
	require.NoError(t, err)
	_, err = st.Put(ctx, "other/x.bin", strings.NewReader("x"), sink.PutOptions{})
	require.NoError(t, err)

	// WHEN: Writing the same key again
	_, err = st.Put(ctx, "exports/a/employees.csv", strings.NewReader("again"), opts)

	// THEN: Create-only
	assert.ErrorIs(t, err, sink.ErrExists)

	// Get returns the body and attributes
	got, rc, err := st.Get(ctx, "exports/a/employees.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "ID\n1\n", string(body))
	assert.Equal(t, "text/csv", got.ContentType)
	assert.Equal(t, "2", got.Metadata["rows"])

	_, _, err = st.Get(ctx, "exports/missing.csv")
	assert.ErrorIs(t, err, sink.ErrNotFound)

	// List filters by prefix, sorted by key
	list, err := st.List(ctx, "exports/")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "exports/a/employees.csv", list[0].Key)
	assert.Equal(t, "exports/b/employees.csv", list[1].Key)

	all, err := st.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Delete reports whether the key existed
	ok, err := st.Delete(ctx, "exports/a/employees.csv")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.Delete(ctx, "exports/a/employees.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	// Traversal is rejected
	_, err = st.Put(ctx, "../escape", strings.NewReader("x"), sink.PutOptions{})
	assert.ErrorIs(t, err, sink.ErrInvalidKey)
}
