package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/sink/sinktest"
)

func TestStore(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, sink.DriverFS, st.Driver())

	sinktest.Run(t, st)
}

func TestStore_WritesSidecar(t *testing.T) {
	// GIVEN: A store in a temp dir
	root := t.TempDir()
	st, err := New(root)
	require.NoError(t, err)

	// WHEN: Storing an object
	info, err := st.Put(context.Background(), "exports/x/employees.csv", strings.NewReader("abc"), sink.PutOptions{ContentType: "text/csv"})
	require.NoError(t, err)

	// THEN: Data and sidecar sit side by side, etag is the sha256
	data, err := os.ReadFile(filepath.Join(root, "exports", "x", "employees.csv"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.FileExists(t, filepath.Join(root, "exports", "x", "employees.csv.meta"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", info.ETag)
}

func TestStore_CorruptSidecar(t *testing.T) {
	root := t.TempDir()
	st, err := New(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.meta"), []byte("{"), 0o644))

	_, err = st.List(context.Background(), "")

	assert.Error(t, err)
}
