package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// PageParams holds normalized pagination and sorting parameters.
type PageParams struct {
	Page     int
	Size     int
	SortBy   string
	SortDesc bool
}

// ParsePageParams extracts and validates pagination parameters from the request.
// The sort parameter uses "field,direction" form, e.g. "createdAt,desc".
func ParsePageParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	params := PageParams{Page: page, Size: size, SortBy: "createdAt", SortDesc: true}

	sort := c.DefaultQuery("sort", "createdAt,desc")
	parts := strings.SplitN(sort, ",", 2)
	if parts[0] != "" {
		params.SortBy = parts[0]
	}
	if len(parts) == 2 {
		params.SortDesc = strings.EqualFold(parts[1], "desc")
	}

	return params
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on
// a 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * limit)
	return offset, limit
}

// TotalPages computes the page count for a total item count and page size.
func TotalPages(totalItems int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	pages := totalItems / int64(size)
	if totalItems%int64(size) != 0 {
		pages++
	}
	return int(pages)
}
