package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultSize is the standard page size when none is provided.
	DefaultSize = 20
	// MaxSize caps how many rows any paginated query can request.
	MaxSize = 100
)

// Params holds offset pagination inputs. Page is zero-based, matching the
// backend contract.
type Params struct {
	Page int
	Size int
	Sort string
}

// FromQuery reads page/size/sort query parameters, tolerating absent or
// malformed values.
func FromQuery(query url.Values) Params {
	params := Params{Sort: query.Get("sort")}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(query.Get("size")); err == nil {
		params.Size = size
	}
	return params.Normalize()
}

// Normalize clamps the page and size into their allowed ranges.
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// Query encodes the params for an outgoing request.
func (p Params) Query() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("size", strconv.Itoa(p.Size))
	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}
	return values
}

// Page is one page of results plus totals.
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a page response, deriving TotalPages from the total row
// count.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if params.Size > 0 {
		pages = int((total + int64(params.Size) - 1) / int64(params.Size))
	}
	return Page[T]{
		Items:         items,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
