// Package pagination slices ordered listings into fixed-size pages.
//
// The clamping contract mirrors the behavior list views rely on: a missing,
// non-numeric or sub-1 page parameter resolves to the first page, and a page
// number beyond the end resolves to the last page. Callers therefore always
// get a renderable page back, never an error.
package pagination

import "strconv"

// Page describes one resolved page of a listing.
type Page struct {
	Number     int   // 1-based page number after clamping
	Size       int   // fixed page size
	TotalItems int64 // total items across all pages
	TotalPages int   // at least 1, even for an empty listing
}

// Resolve parses the raw page query parameter and clamps it against the
// total item count. size must be positive.
func Resolve(raw string, size int, totalItems int64) Page {
	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Limit returns the page size for use as a query limit.
func (p Page) Limit() int { return p.Size }

// Offset returns the item offset of the first item on the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// Next returns the following page number, clamped to the last page.
func (p Page) Next() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.TotalPages
}

// Prev returns the preceding page number, clamped to the first page.
func (p Page) Prev() int {
	if p.HasPrev() {
		return p.Number - 1
	}
	return 1
}
