package domain

import "math" // Offset bounds

// Pagination bounds
const (
	DefaultPage  = 1   // First page
	DefaultLimit = 10  // Items per page when unspecified
	MaxLimit     = 100 // Upper bound on items per page
)

// Page is a validated page/limit pair
type Page struct {
	Page  int // 1-based page number
	Limit int // Items per page, 1..MaxLimit
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MaxPage returns the highest page whose offset still fits in an int
func MaxPage(limit int) int {
	if limit <= 0 {
		return 0
	}
	return math.MaxInt/limit + 1
}

// PageResult is a window of rows plus the total count of matches
type PageResult[T any] struct {
	Data  []T   `json:"data"`  // Rows on this page
	Total int64 `json:"total"` // Matching rows across all pages
	Page  int   `json:"page"`  // Current page
	Limit int   `json:"limit"` // Page size
}

// TotalPages returns the number of pages needed to show Total rows
func (r PageResult[T]) TotalPages() int {
	if r.Limit <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Limit) - 1) / int64(r.Limit))
}
