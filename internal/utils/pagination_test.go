package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/?"+query, nil)

	return ctx
}

func TestGetPagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "explicit", query: "page=3&limit=25", wantPage: 3, wantLimit: 25, wantOffset: 50},
		{name: "limit capped", query: "limit=500", wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "zero page", query: "page=0", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative limit", query: "limit=-5", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "garbage", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: 10, wantOffset: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := GetPagination(paginationContext(t, testCase.query))

			if req.Page != testCase.wantPage || req.Limit != testCase.wantLimit || req.Offset != testCase.wantOffset {
				t.Fatalf("expected page=%d limit=%d offset=%d, got page=%d limit=%d offset=%d",
					testCase.wantPage, testCase.wantLimit, testCase.wantOffset, req.Page, req.Limit, req.Offset)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		total     int64
		wantPages int64
	}{
		{name: "exact fit", req: PageRequest{Page: 1, Limit: 10}, total: 30, wantPages: 3},
		{name: "partial last page", req: PageRequest{Page: 1, Limit: 10}, total: 31, wantPages: 4},
		{name: "empty", req: PageRequest{Page: 1, Limit: 10}, total: 0, wantPages: 0},
		{name: "single record", req: PageRequest{Page: 1, Limit: 10}, total: 1, wantPages: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			pagination := BuildPagination(testCase.req, testCase.total)

			if pagination.TotalRecords != testCase.total {
				t.Fatalf("expected %d records, got %d", testCase.total, pagination.TotalRecords)
			}
			if pagination.TotalPages != testCase.wantPages {
				t.Fatalf("expected %d pages, got %d", testCase.wantPages, pagination.TotalPages)
			}
		})
	}
}
