package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit values", query: "?limit=5&offset=40", wantLimit: 5, wantOffset: 40},
		{name: "limit capped at max", query: "?limit=500", wantLimit: 100, wantOffset: 0},
		{name: "non numeric ignored", query: "?limit=abc&offset=xyz", wantLimit: 20, wantOffset: 0},
		{name: "negative ignored", query: "?limit=-1&offset=-5", wantLimit: 20, wantOffset: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/hr/employees"+tc.query, nil)
			got := ParsePagination(r, 20, 100)
			if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d, want limit=%d offset=%d",
					got.Limit, got.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
