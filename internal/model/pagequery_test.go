package model

import (
	"net/url"
	"testing"
)

func TestParsePageQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"absent", "", 1, 10},
		{"valid", "page=3&pagesize=25", 3, 25},
		{"non-numeric", "page=abc&pagesize=xyz", 1, 10},
		{"zero", "page=0&pagesize=0", 1, 10},
		{"negative", "page=-2&pagesize=-10", 1, 10},
		{"fractional truncates", "page=2.9&pagesize=10.5", 2, 10},
		{"huge falls back", "page=1e30", 1, 10},
		{"nan falls back", "page=NaN", 1, 10},
		{"mixed validity", "page=5&pagesize=junk", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got := ParsePageQuery(q)
			if got.Page != tt.wantPage || got.PageSize != tt.wantPageSize {
				t.Errorf("ParsePageQuery(%q) = %+v, want page=%d pagesize=%d",
					tt.query, got, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPageQueryValuesRoundTrip(t *testing.T) {
	q := PageQuery{Page: 4, PageSize: 20}
	if got := ParsePageQuery(q.Values()); got != q {
		t.Errorf("round-trip = %+v, want %+v", got, q)
	}
}

func TestPageQueryOffset(t *testing.T) {
	tests := []struct {
		q    PageQuery
		want int
	}{
		{PageQuery{Page: 1, PageSize: 10}, 0},
		{PageQuery{Page: 2, PageSize: 10}, 10},
		{PageQuery{Page: 5, PageSize: 20}, 80},
	}
	for _, tt := range tests {
		if got := tt.q.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %d, want %d", tt.q, got, tt.want)
		}
	}
}
