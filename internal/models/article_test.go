package models

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero value defaults", PageRequest{}, 1, DefaultPageSize},
		{"negative page", PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size capped", PageRequest{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"valid request untouched", PageRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.Normalize()
			if got.Page != c.wantPage || got.PageSize != c.wantSize {
				t.Errorf("Normalize() = {Page:%d Size:%d}, want {Page:%d Size:%d}",
					got.Page, got.PageSize, c.wantPage, c.wantSize)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
}
