package listview

import "slices"

// Selection is an ordered set of selected record ids. It is independent of
// filtering and sorting.
type Selection[K comparable] struct {
	ids   []K
	index map[K]struct{}
}

// NewSelection returns an empty selection.
func NewSelection[K comparable]() *Selection[K] {
	return &Selection[K]{index: make(map[K]struct{})}
}

// Len returns the number of selected ids.
func (s *Selection[K]) Len() int {
	return len(s.ids)
}

// Contains reports whether id is selected.
func (s *Selection[K]) Contains(id K) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the selected ids in selection order.
func (s *Selection[K]) IDs() []K {
	return slices.Clone(s.ids)
}

// Toggle selects id if absent and deselects it otherwise. It reports whether
// id is selected afterwards.
func (s *Selection[K]) Toggle(id K) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id.
func (s *Selection[K]) Remove(id K) {
	if !s.Contains(id) {
		return
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(k K) bool { return k == id })
}

// Clear empties the selection.
func (s *Selection[K]) Clear() {
	s.ids = nil
	clear(s.index)
}

// SelectAllVisible clears the selection when it already equals the visible
// set, and otherwise replaces it with the visible set.
func (s *Selection[K]) SelectAllVisible(visible []K) {
	want := make(map[K]struct{}, len(visible))
	ordered := make([]K, 0, len(visible))
	for _, id := range visible {
		if _, dup := want[id]; dup {
			continue
		}
		want[id] = struct{}{}
		ordered = append(ordered, id)
	}

	if s.equals(want) {
		s.Clear()
		return
	}
	s.ids = ordered
	s.index = want
}

func (s *Selection[K]) equals(other map[K]struct{}) bool {
	if len(s.index) != len(other) {
		return false
	}
	for id := range other {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}
