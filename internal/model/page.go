package model

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page selects a window of a listing. Skip is a 1-based page number.
type Page struct {
	Limit int64
	Skip  int64
}

// NewPage applies defaults to out-of-range values
func NewPage(limit, skip int64) Page {
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if skip < 1 {
		skip = 1
	}
	// keeps Offset from overflowing
	if skip > math.MaxInt64/limit {
		skip = math.MaxInt64 / limit
	}
	return Page{Limit: limit, Skip: skip}
}

// Offset is the number of records preceding the page
func (p Page) Offset() int64 {
	return p.Limit * (p.Skip - 1)
}
