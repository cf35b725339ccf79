// internal/tracker/selection.go
package tracker

import (
	"sort"

	"jobmindr/internal/models"
)

// Selection tracks the rows checked for bulk deletion.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

func (s *Selection) Toggle(id int64) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Set(id int64, checked bool) {
	if checked {
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// AllSelected reports whether every loaded row is checked. An empty table is
// never all-selected.
func (s *Selection) AllSelected(loaded []models.JobApplication) bool {
	if len(loaded) == 0 {
		return false
	}
	for _, app := range loaded {
		if !s.Has(app.ID) {
			return false
		}
	}
	return true
}

// ToggleAll selects every loaded row, or clears the selection when they are
// already all selected.
func (s *Selection) ToggleAll(loaded []models.JobApplication) {
	if s.AllSelected(loaded) {
		s.Clear()
		return
	}
	s.Clear()
	for _, app := range loaded {
		s.ids[app.ID] = struct{}{}
	}
}

// Prune drops ids that are no longer among the loaded rows.
func (s *Selection) Prune(loaded []models.JobApplication) {
	present := make(map[int64]struct{}, len(loaded))
	for _, app := range loaded {
		present[app.ID] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			delete(s.ids, id)
		}
	}
}

func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selection in ascending order.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
