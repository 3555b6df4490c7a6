// Package memory implements sink.Store in process memory.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/employee-directory/sink"
)

type object struct {
	info sink.Info
	data []byte
}

// Store keeps objects in a map guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	objs map[string]object
	now  func() time.Time
}

func New() *Store {
	return &Store{objs: make(map[string]object), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Driver() sink.Driver { return sink.DriverMemory }

func (s *Store) Put(_ context.Context, key string, r io.Reader, opts sink.PutOptions) (sink.Info, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return sink.Info{}, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return sink.Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return sink.Info{}, fmt.Errorf("%w: %s", sink.ErrExists, key)
	}
	info := sink.Info{
		Key:          key,
		Size:         int64(len(b)),
		ContentType:  opts.ContentType,
		Metadata:     sink.CloneMetadata(opts.Metadata),
		LastModified: s.now(),
	}
	s.objs[key] = object{info: info, data: b}
	return copyInfo(info), nil
}

func (s *Store) Get(_ context.Context, key string) (sink.Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return sink.Info{}, nil, fmt.Errorf("%w: %s", sink.ErrNotFound, key)
	}
	return copyInfo(obj.info), io.NopCloser(bytes.NewReader(bytes.Clone(obj.data))), nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	delete(s.objs, key)
	return ok, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]sink.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sink.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, copyInfo(v.info))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func copyInfo(in sink.Info) sink.Info {
	in.Metadata = sink.CloneMetadata(in.Metadata)
	return in
}
