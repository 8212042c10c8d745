package filesystem

import (
	"fmt"
	"math"
)

// SortField names an item column callers may sort by
type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortBySize      SortField = "size"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Default pagination values
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	DefaultSortField = SortByCreatedAt
	DefaultSortOrder = SortDesc
)

// DeletionState selects rows by their soft-delete flag
type DeletionState int

const (
	// Live rows only (is_deleted = false)
	Live DeletionState = iota
	// Trashed rows only (is_deleted = true)
	Trashed
	// AnyState ignores the soft-delete flag
	AnyState
)

// PageRequest is a 1-indexed page with an item sort
type PageRequest struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	SortBy    SortField `json:"sort_by"`
	SortOrder SortOrder `json:"sort_order"`
}

// ApplyDefaults fills in default values for unset fields and clamps the
// limit to MaxPageLimit
func (p *PageRequest) ApplyDefaults() {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortField
	}
	if p.SortOrder == "" {
		p.SortOrder = DefaultSortOrder
	}
}

// Validate checks that the page request is usable
func (p *PageRequest) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	switch p.SortBy {
	case SortByName, SortByCreatedAt, SortByUpdatedAt, SortBySize:
	default:
		return fmt.Errorf("invalid sort field: %q (supported: name, created_at, updated_at, size)", p.SortBy)
	}
	switch p.SortOrder {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("invalid sort order: %q (supported: asc, desc)", p.SortOrder)
	}
	return nil
}

// Offset returns the number of rows to skip
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ItemFilter narrows an item listing. Nil fields are not filtered on.
type ItemFilter struct {
	UserID     string
	FolderID   *string
	Type       *ItemType
	IsFavorite *bool
	Page       PageRequest
}

// Pagination describes the page returned to the caller
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total pages as ceil(total/limit)
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ItemPage is one page of an item listing
type ItemPage struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}
