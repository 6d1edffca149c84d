package repositories

import "gorm.io/gorm"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination selects one page of a listing. Zero values mean the first page
// with the default limit.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page to >= 1 and the limit to [1, 100].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Page is one page of results plus the total number of matching rows.
type Page[T any] struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	Data       []T   `json:"data"`
}

// NewPage wraps rows fetched with p.
func NewPage[T any](p Pagination, total int64, rows []T) Page[T] {
	n := p.Normalize()
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{Page: n.Page, Limit: n.Limit, TotalItems: total, Data: rows}
}

func paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		n := p.Normalize()
		return db.Offset(p.Offset()).Limit(n.Limit)
	}
}
