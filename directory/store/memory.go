// Package store provides directory.Store implementations.
package store

import (
	"sync"

	"github.com/warp/employee-directory/directory"
)

// =============================================================================
// MEMORY STORE - Copy-on-write in-memory collection
// =============================================================================

// Memory keeps the collection in a slice that is never modified after it is
// published. Writers build a replacement under the lock and swap it in.
type Memory struct {
	mu        sync.RWMutex
	records   []directory.Employee
	version   uint64
	highWater int
}

// NewMemory returns a store holding a copy of records.
func NewMemory(records ...directory.Employee) *Memory {
	m := &Memory{}
	m.Replace(records)
	return m
}

func (m *Memory) Snapshot() directory.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return directory.Snapshot{Records: m.records, Version: m.version}
}

func (m *Memory) Get(id int) (directory.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexLocked(id); i >= 0 {
		return m.records[i].Clone(), nil
	}
	return directory.Employee{}, &directory.NotFoundError{ID: id}
}

// Insert assigns the next id. The caller's ID field is ignored.
func (m *Memory) Insert(e directory.Employee) (directory.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e = e.Clone()
	e.ID = m.nextIDLocked()

	next := make([]directory.Employee, len(m.records), len(m.records)+1)
	copy(next, m.records)
	next = append(next, e)

	m.highWater = e.ID
	m.swapLocked(next)
	return e.Clone(), nil
}

func (m *Memory) Update(e directory.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(e.ID)
	if i < 0 {
		return &directory.NotFoundError{ID: e.ID}
	}

	next := make([]directory.Employee, len(m.records))
	copy(next, m.records)
	next[i] = e.Clone()
	m.swapLocked(next)
	return nil
}

func (m *Memory) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return &directory.NotFoundError{ID: id}
	}

	next := make([]directory.Employee, 0, len(m.records)-1)
	next = append(next, m.records[:i]...)
	next = append(next, m.records[i+1:]...)
	m.swapLocked(next)
	return nil
}

func (m *Memory) DeleteMany(ids []int) int {
	drop := idSet(ids)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]directory.Employee, 0, len(m.records))
	for _, e := range m.records {
		if _, ok := drop[e.ID]; !ok {
			next = append(next, e)
		}
	}

	removed := len(m.records) - len(next)
	if removed > 0 {
		m.swapLocked(next)
	}
	return removed
}

func (m *Memory) SetStatus(ids []int, status directory.Status) (int, error) {
	if !status.Valid() {
		return 0, &directory.InvalidValueError{Field: "status", Value: string(status), Err: directory.ErrInvalidStatus}
	}
	want := idSet(ids)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]directory.Employee, len(m.records))
	changed := 0
	for i, e := range m.records {
		if _, ok := want[e.ID]; ok {
			e.Status = status
			changed++
		}
		next[i] = e
	}

	if changed > 0 {
		m.swapLocked(next)
	}
	return changed, nil
}

// Replace swaps in a copy of records and starts id assignment over from
// their highest id, as if the store had been created with them.
func (m *Memory) Replace(records []directory.Employee) {
	next := make([]directory.Employee, len(records))
	highest := 0
	for i, e := range records {
		next[i] = e.Clone()
		if e.ID > highest {
			highest = e.ID
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.highWater = highest
	m.swapLocked(next)
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Memory) swapLocked(next []directory.Employee) {
	m.records = next
	m.version++
}

func (m *Memory) indexLocked(id int) int {
	for i, e := range m.records {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) nextIDLocked() int {
	highest := m.highWater
	for _, e := range m.records {
		if e.ID > highest {
			highest = e.ID
		}
	}
	return highest + 1
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
