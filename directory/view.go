/*
view.go - Query pipeline composition and memoized view

PURPOSE:
  Composes Filter -> Sort -> Paginate. Run is the pure form used by the
  stateless API; View is the stateful form held by a Session, which keeps the
  query inputs and caches both derivation stages.

MEMOIZATION:
  Stage 1 (filter + sort) is cached on (store version, query revision).
  Stage 2 (page slice) is cached on (page, size, stage-1 generation).
  Any setter that changes an input bumps the matching key; nothing else
  invalidates.

PAGE RESET:
  Changing the search term, the filter criteria or the page size puts the
  view back on page 1. Changing the sort does not.
*/
package directory

import "strconv"

// Query is the input of the filter and sort stages.
type Query struct {
	Search   string
	Criteria Criteria
	Sort     SortConfig
}

// DefaultQuery has no search, no criteria and the default sort.
func DefaultQuery() Query {
	return Query{Sort: DefaultSort}
}

// Run evaluates the whole pipeline over records.
func Run(records []Employee, q Query, page, size int) (Page, error) {
	sorted, err := Sort(Filter(records, q.Search, q.Criteria), q.Sort)
	if err != nil {
		return Page{}, err
	}
	return Paginate(sorted, page, size), nil
}

// =============================================================================
// VIEW
// =============================================================================

// View holds the query state of one session and memoizes its results.
type View struct {
	store Store

	query    Query
	revision uint64
	page     int
	size     int

	derived struct {
		valid    bool
		version  uint64
		revision uint64
		gen      uint64
		records  []Employee
	}
	paged struct {
		valid bool
		page  int
		size  int
		gen   uint64
		value Page
	}

	// derivations counts stage-1 recomputations.
	derivations int
}

// NewView starts on page 1 with DefaultQuery and DefaultPageSize.
func NewView(store Store) *View {
	return &View{store: store, query: DefaultQuery(), page: 1, size: DefaultPageSize}
}

func (v *View) Query() Query { return v.query }

func (v *View) PageNumber() int { return v.page }

func (v *View) PageSize() int { return v.size }

// SetSearch changes the search term. A different term resets to page 1.
func (v *View) SetSearch(term string) {
	if term == v.query.Search {
		return
	}
	v.query.Search = term
	v.revision++
	v.page = 1
}

// SetCriteria replaces the filter criteria and resets to page 1.
func (v *View) SetCriteria(c Criteria) {
	v.query.Criteria = c
	v.revision++
	v.page = 1
}

// SetSort replaces the sort key. The page is kept.
func (v *View) SetSort(cfg SortConfig) error {
	if _, ok := comparators[cfg.Field]; !ok {
		return &InvalidValueError{Field: "sort", Value: string(cfg.Field), Err: ErrInvalidSortField}
	}
	if cfg.Direction != Descending {
		cfg.Direction = Ascending
	}
	if cfg == v.query.Sort {
		return nil
	}
	v.query.Sort = cfg
	v.revision++
	return nil
}

// SetPage moves to page n without clamping; out-of-range pages are empty.
func (v *View) SetPage(n int) {
	v.page = n
}

// SetPageSize changes the page size and resets to page 1.
func (v *View) SetPageSize(n int) error {
	if n <= 0 {
		return &InvalidValueError{Field: "page_size", Value: strconv.Itoa(n), Err: ErrInvalidPageSize}
	}
	v.size = n
	v.page = 1
	return nil
}

// Results returns the filtered and sorted sequence, before pagination.
// The returned slice is shared; callers must not modify it.
func (v *View) Results() []Employee {
	snap := v.store.Snapshot()
	d := &v.derived
	if d.valid && d.version == snap.Version && d.revision == v.revision {
		return d.records
	}

	filtered := Filter(snap.Records, v.query.Search, v.query.Criteria)
	sorted, err := Sort(filtered, v.query.Sort)
	if err != nil {
		// SetSort only admits table fields.
		sorted = filtered
	}

	d.valid = true
	d.version = snap.Version
	d.revision = v.revision
	d.gen++
	d.records = sorted
	v.derivations++
	return sorted
}

// Current returns the visible page.
func (v *View) Current() Page {
	records := v.Results()
	p := &v.paged
	if p.valid && p.page == v.page && p.size == v.size && p.gen == v.derived.gen {
		return p.value
	}

	value := Paginate(records, v.page, v.size)
	p.value = value
	p.page = v.page
	p.size = v.size
	p.gen = v.derived.gen
	p.valid = true
	return value
}

// Next moves forward one page, stopping at the last page.
func (v *View) Next() {
	v.page = min(v.Current().TotalPages, v.page+1)
}

// Prev moves back one page, stopping at page 1. From past the last page it
// lands on the last page.
func (v *View) Prev() {
	v.page = max(1, min(v.page-1, v.Current().TotalPages))
}
