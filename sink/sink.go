// Package sink defines the blob store that export documents are delivered to.
// Drivers live in subpackages; cmd/server picks one from configuration.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Driver identifies a concrete backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFS       Driver = "fs"
	DriverS3       Driver = "s3"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Drivers lists every supported backend.
var Drivers = []Driver{DriverMemory, DriverFS, DriverS3, DriverSQLite, DriverPostgres}

// ParseDriver validates a configured driver name. Empty means memory.
func ParseDriver(raw string) (Driver, error) {
	if raw == "" {
		return DriverMemory, nil
	}
	for _, d := range Drivers {
		if string(d) == strings.ToLower(raw) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown sink driver %q", raw)
}

// PutOptions carries optional object attributes.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored object.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is a create-only key/object store.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

var (
	ErrExists     = errors.New("sink: object already exists")
	ErrNotFound   = errors.New("sink: object not found")
	ErrInvalidKey = errors.New("sink: invalid key")
)

// CleanKey rejects empty, absolute and traversing keys and returns the
// normalized form.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q escapes the root", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}

// CloneMetadata returns an independent copy, nil for nil.
func CloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
