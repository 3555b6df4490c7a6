/*
store.go - Record store interface

PURPOSE:
  Defines the boundary between the directory logic (query pipeline, form,
  selection) and the authoritative collection of employee records.

COPY-ON-WRITE CONTRACT:
  Every mutation derives a new collection and swaps it in whole:
  - A Snapshot taken before a mutation never changes afterwards
  - Bulk operations (DeleteMany, SetStatus) are a single swap, so no
    partial application is ever visible
  - Version increases on every swap; the query pipeline memoizes on it

ID ASSIGNMENT:
  Insert assigns max(existing ids, highest id ever issued) + 1. An empty
  fresh store starts at 1. Ids are never reused, even when the record with
  the highest id is deleted.

IMPLEMENTATIONS:
  - directory/store/memory.go: In-memory store (the only one; records are
    not persisted across sessions)

SEE ALSO:
  - view.go: Memoized derivation keyed on Snapshot.Version
*/
package directory

// =============================================================================
// STORE - Interface for the record collection
// =============================================================================

// Snapshot is an immutable view of the collection at one version.
// Callers must not modify Records.
type Snapshot struct {
	Records []Employee
	Version uint64
}

// Store holds the ordered employee collection.
type Store interface {
	// Snapshot returns the current collection.
	Snapshot() Snapshot

	// Get returns a copy of the record with the given id.
	Get(id int) (Employee, error)

	// Insert assigns the next id, appends the record and returns it.
	Insert(e Employee) (Employee, error)

	// Update replaces the record with e.ID in place.
	Update(e Employee) error

	// Delete removes one record.
	Delete(id int) error

	// DeleteMany removes every record whose id is in ids and reports how
	// many were removed.
	DeleteMany(ids []int) int

	// SetStatus sets status on every record whose id is in ids and reports
	// how many were changed.
	SetStatus(ids []int, status Status) (int, error)

	// Replace swaps in a whole new collection.
	Replace(records []Employee)
}
