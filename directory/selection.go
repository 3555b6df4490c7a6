package directory

import "slices"

// Selection is the set of record ids marked for a bulk operation.
type Selection struct {
	ids map[int]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: map[int]struct{}{}}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id int) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Selection) Clear() {
	s.ids = map[int]struct{}{}
}

// SelectAll works on the visible page only. When every visible id is already
// selected the whole selection is cleared; otherwise the selection becomes
// exactly the visible ids, dropping anything selected on other pages.
func (s *Selection) SelectAll(visible []int) {
	if s.AllSelected(visible) {
		s.Clear()
		return
	}
	s.ids = make(map[int]struct{}, len(visible))
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// AllSelected reports whether every id in visible is selected.
func (s *Selection) AllSelected(visible []int) bool {
	for _, id := range visible {
		if !s.Has(id) {
			return false
		}
	}
	return true
}
