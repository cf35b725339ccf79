// internal/tracker/sort.go
package tracker

import "jobmindr/internal/models"

// SortState is the column ordering of the listing table.
type SortState struct {
	Field models.SortField
	Order models.SortOrder
}

// NewSortState starts with the newest applications first.
func NewSortState() SortState {
	return SortState{Field: models.DefaultSortField, Order: models.DefaultSortOrder}
}

// Toggle re-sorts by column. The active column flips direction; any other
// column becomes active in ascending order.
func (s *SortState) Toggle(column models.SortField) {
	if s.Field == column {
		s.Order = s.Order.Opposite()
		return
	}
	s.Field = column
	s.Order = models.SortAsc
}

// Apply copies the ordering onto f.
func (s SortState) Apply(f models.ListFilter) models.ListFilter {
	f.SortBy = s.Field
	f.SortOrder = s.Order
	return f
}
