package utils

import (
	"math"
	"strconv"
)

// MaxPageLimit caps the page size a client can request
const MaxPageLimit = 100

// PaginationParams holds pagination request parameters.
// A zero Limit means the whole collection.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// ParsePagination reads page and limit from raw query values.
// Unparseable values fall back to the defaults (page 1, no limit).
func ParsePagination(pageStr, limitStr string) PaginationParams {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	return GetPaginationParams(page, limit)
}

// GetPaginationParams normalizes page and limit
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PaginationParams{Page: page, Limit: limit}
}

// Enabled reports whether the caller asked for a page rather than everything
func (p PaginationParams) Enabled() bool {
	return p.Limit > 0
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      int(totalCount),
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}
}
