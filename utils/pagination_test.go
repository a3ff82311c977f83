package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paginationContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/hotels"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int64
		wantLimit int64
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20},
		{name: "explicit", query: "?page=3&limit=50", wantPage: 3, wantLimit: 50},
		{name: "limit clamped", query: "?limit=5000", wantPage: 1, wantLimit: 100},
		{name: "zero page ignored", query: "?page=0", wantPage: 1, wantLimit: 20},
		{name: "negative ignored", query: "?page=-2&limit=-5", wantPage: 1, wantLimit: 20},
		{name: "garbage ignored", query: "?page=abc&limit=xyz", wantPage: 1, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ParsePagination(paginationContext(tt.query))
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSkipFor(t *testing.T) {
	if got := SkipFor(1, 20); got != 0 {
		t.Errorf("first page skip = %d, want 0", got)
	}
	if got := SkipFor(4, 25); got != 75 {
		t.Errorf("skip = %d, want 75", got)
	}
}
