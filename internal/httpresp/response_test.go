package httpresp

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"?page=3&limit=10", 3, 10},
		{"?page=-1&limit=500", 1, 20},
		{"?page=x&limit=y", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		p := ParsePage(c, 20, 100)
		if p.Page != tc.page || p.Limit != tc.limit {
			t.Errorf("%q: got %+v", tc.query, p)
		}
	}
	if off := (Page{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("offset = %d", off)
	}
}
