package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a page size into an offset and limit.
// Pages past the largest representable offset are clamped to it.
func Calculate(page, size int) (offset, limit int) {
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return (page - 1) * size, size
}

// Window returns the bounds of one page over n items. A negative offset is
// treated as past the end.
func Window(n, offset, limit int) (start, end int) {
	if offset < 0 || offset >= n {
		return n, n
	}
	return offset, min(offset+limit, n)
}
