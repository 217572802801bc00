package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest is a validated page/size pair from the query string.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip for the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PageResponse wraps one page of results with the totals a client needs to paginate.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPageResponse builds a PageResponse, never returning a nil Content slice.
func NewPageResponse[T any](content []T, req PageRequest, total int64) PageResponse[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return PageResponse[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// ParsePagination parses zero-based "page" and "size" query parameters.
// It uses default values of 0 for page and 20 for size. The size cannot exceed 100.
func ParsePagination(c *gin.Context) (PageRequest, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		return PageRequest{}, fmt.Errorf("invalid page parameter: must be a non-negative integer")
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 || size > maxPageSize {
		return PageRequest{}, fmt.Errorf("invalid size parameter: must be between 1 and %d", maxPageSize)
	}

	return PageRequest{Page: page, Size: size}, nil
}
