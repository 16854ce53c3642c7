package biz

import (
	"strconv"
	"strings"
)

// Page describes a resolved page of a listing.
type Page struct {
	Number     int
	TotalPages int
	Total      int64
	Size       int
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Paginate resolves a raw 1-indexed page number against total items.
// Unparseable input selects page 1; numbers below 1 or past the end select
// the last page. An empty listing still has one (empty) page.
func Paginate(total int64, pageSize int, raw string) Page {
	if pageSize <= 0 {
		pageSize = 10
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	number := 1
	if raw = strings.TrimSpace(raw); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			number = 1
		case n < 1 || n > pages:
			number = pages
		default:
			number = n
		}
	}
	return Page{Number: number, TotalPages: pages, Total: total, Size: pageSize}
}

// Slice returns the items of s that fall on p.
func Slice[T any](s []T, p Page) []T {
	start := p.Offset()
	if start >= len(s) {
		return []T{}
	}
	end := start + p.Size
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
