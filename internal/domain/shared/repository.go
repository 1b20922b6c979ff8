package shared

import (
	"context"

	"github.com/google/uuid"
)

// defaultPageSize applies whenever a filter carries no usable size.
const defaultPageSize = 20

// Repository is the persistence contract every aggregate repository
// satisfies.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// TenantRepository adds tenant-pinned lookups for callers that hold an
// explicit tenant ID rather than relying on context scoping.
type TenantRepository[T any] interface {
	Repository[T]
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]T, error)
}

// Filter carries pagination, ordering and search criteria into list
// queries.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter lists newest first, 20 per page.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: defaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Limit returns the page size, normalized to the default when unset or
// negative.
func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return defaultPageSize
	}
	return f.PageSize
}

// Offset returns the row offset for the current page.
func (f Filter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Paginated is one page of results plus the totals clients need for
// paging controls.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated assembles a page and derives the page count.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
