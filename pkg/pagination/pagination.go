package pagination

import (
	"net/http"
	"strconv"
)

// DefaultPerPage is the fixed catalog page size.
const DefaultPerPage = 10

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the fixed page size.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: DefaultPerPage,
		Offset:  0,
	}
}

// FromRequest extracts the 1-indexed page number from an HTTP request.
// Missing or malformed values fall back to page 1; the page size is fixed.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("pageNumber"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Pages returns the total page count for the given match count:
// ceil(totalCount / perPage).
func (p Params) Pages(totalCount int) int {
	pages := totalCount / p.PerPage
	if totalCount%p.PerPage > 0 {
		pages++
	}
	return pages
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	Pages      int  `json:"pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	pages := params.Pages(totalCount)
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		Pages:      pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}
