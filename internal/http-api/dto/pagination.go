package dto

import (
	"net/url"
	"strconv"
)

// Page is the paginated list envelope; Next and Previous are absolute URLs or null.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for page of pageSize items out of total, with
// links derived from base (the absolute request URL).
func NewPage[T any](base *url.URL, results []T, total int64, page, pageSize int) *Page[T] {
	if results == nil {
		results = []T{}
	}
	p := &Page[T]{Count: total, Results: results}

	if int64(page)*int64(pageSize) < total {
		next := pageURL(base, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(base, page-1)
		p.Previous = &prev
	}
	return p
}

// pageURL replaces the page query param; the first page drops it entirely.
func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
