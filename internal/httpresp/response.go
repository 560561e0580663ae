package httpresp

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Page is a parsed ?page=&limit= pair.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage clamps page to >= 1 and limit to (0, maxLimit], defaulting to def.
func ParsePage(c *gin.Context, def, maxLimit int) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > maxLimit {
		limit = def
	}
	return Page{Page: page, Limit: limit}
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(201, data)
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Paged[T any](c *gin.Context, p Page, total int64, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, PageResponse[T]{
		Data:  data,
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	})
}
