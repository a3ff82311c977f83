package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ParsePagination reads the page/limit query parameters, clamping them to
// sane bounds
func ParsePagination(c echo.Context) (page, limit int64) {
	page = 1
	limit = defaultPageLimit

	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// SkipFor converts a page window into a Mongo skip offset
func SkipFor(page, limit int64) int64 {
	return (page - 1) * limit
}
