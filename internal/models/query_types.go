// internal/models/query_types.go
package models

import (
	"net/url"
	"strings"
)

// SortField names a column the listing can be ordered by.
type SortField string

const (
	SortByCompanyName       SortField = "companyName"
	SortByDateApplied       SortField = "dateApplied"
	SortByApplicationStatus SortField = "applicationStatus"
	SortByJobTitle          SortField = "jobTitle"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultSortField = SortByDateApplied
	DefaultSortOrder = SortDesc
)

// Valid reports whether the field is one of the sortable columns.
func (f SortField) Valid() bool {
	switch f {
	case SortByCompanyName, SortByDateApplied, SortByApplicationStatus, SortByJobTitle:
		return true
	}
	return false
}

// Opposite flips the direction.
func (o SortOrder) Opposite() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ListFilter is the set of optional predicates and ordering of a listing request.
// Empty strings mean "not supplied".
type ListFilter struct {
	CompanyName string    `json:"companyName,omitempty"`
	Status      string    `json:"status,omitempty"`
	DateApplied string    `json:"dateApplied,omitempty"`
	SortBy      SortField `json:"sortBy,omitempty"`
	SortOrder   SortOrder `json:"sortOrder,omitempty"`
}

// ListFilterFromQuery reads the filter from URL query parameters.
func ListFilterFromQuery(q url.Values) ListFilter {
	return ListFilter{
		CompanyName: q.Get("companyName"),
		Status:      q.Get("status"),
		DateApplied: q.Get("dateApplied"),
		SortBy:      SortField(q.Get("sortBy")),
		SortOrder:   SortOrder(q.Get("sortOrder")),
	}
}

// Query encodes the supplied parameters, omitting empty ones.
func (f ListFilter) Query() url.Values {
	q := url.Values{}
	if f.CompanyName != "" {
		q.Set("companyName", f.CompanyName)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.DateApplied != "" {
		q.Set("dateApplied", f.DateApplied)
	}
	if f.SortBy != "" {
		q.Set("sortBy", string(f.SortBy))
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", string(f.SortOrder))
	}
	return q
}

// EffectiveSort resolves the ordering actually applied: an unknown or missing
// field falls back to the default ordering, and any order other than asc is desc.
func (f ListFilter) EffectiveSort() (SortField, SortOrder) {
	if !f.SortBy.Valid() {
		return DefaultSortField, DefaultSortOrder
	}
	if f.SortOrder == SortAsc {
		return f.SortBy, SortAsc
	}
	return f.SortBy, SortDesc
}

// CacheKey is a canonical key: two filters that produce the same result set
// ordering share a key.
func (f ListFilter) CacheKey() string {
	field, order := f.EffectiveSort()
	parts := []string{
		"company=" + url.QueryEscape(f.CompanyName),
		"status=" + url.QueryEscape(f.Status),
		"date=" + url.QueryEscape(f.DateApplied),
		"sort=" + string(field),
		"order=" + string(order),
	}
	return strings.Join(parts, "&")
}
