package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds page-based pagination parameters extracted from a request.
type Params struct {
	Page  int
	Limit int
}

// FromContext extracts pagination parameters from the echo context.
// Missing or malformed values fall back to the defaults.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = DefaultPage
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the index of the first item on the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes the page count for a pre-pagination total.
func (p Params) TotalPages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Slice returns the half-open [start, end) bounds of the requested page
// clamped to a collection of the given size.
func (p Params) Slice(size int) (int, int) {
	start := p.Offset()
	if start > size {
		start = size
	}
	end := start + p.Limit
	if end > size {
		end = size
	}
	return start, end
}
