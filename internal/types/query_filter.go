package types

import "github.com/samber/lo"

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit"`
	Offset *int    `json:"offset,omitempty" form:"offset"`
	Status *Status `json:"status,omitempty" form:"status"`
}

// DefaultQueryFilter defines default values for query filters
var DefaultQueryFilter = QueryFilter{
	Limit:  lo.ToPtr(50),
	Offset: lo.ToPtr(0),
	Status: lo.ToPtr(StatusPublished),
}

// NewDefaultQueryFilter returns a copy of the default query filter
func NewDefaultQueryFilter() *QueryFilter {
	f := DefaultQueryFilter
	return &f
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Status: lo.ToPtr(StatusPublished),
	}
}

// GetLimit returns the limit value or default if not set
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return *DefaultQueryFilter.Limit
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return *DefaultQueryFilter.Offset
	}
	return *f.Offset
}

// GetStatus returns the status value or default if not set
func (f QueryFilter) GetStatus() Status {
	if f.Status == nil {
		return *DefaultQueryFilter.Status
	}
	return *f.Status
}

// IsUnlimited reports whether pagination is disabled for this filter
func (f QueryFilter) IsUnlimited() bool {
	return f.Limit == nil && f.Offset == nil
}

// BaseFilter is the minimal interface list filters implement so stores can
// paginate generically
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	GetStatus() Status
	IsUnlimited() bool
}
