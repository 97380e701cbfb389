package service

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	maxPage = math.MaxInt32
)

// ParsePagination reads the raw page and limit query values. Values that are
// missing or not integers fall back to the defaults; the result is clamped.
func ParsePagination(page, limit string) (int, int) {
	return clampPagination(parseIntOr(page, DefaultPage), parseIntOr(limit, DefaultLimit))
}

func clampPagination(page, limit int) (int, int) {
	page = max(page, 1)
	page = min(page, maxPage)
	limit = min(max(limit, 1), MaxLimit)
	return page, limit
}

func parseIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
