package pagination

import "testing"

func TestValidateAndOffset(t *testing.T) {
	tests := []struct {
		in         PaginationParams
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{PaginationParams{}, 1, 20, 0},
		{PaginationParams{Page: 3, PerPage: 10}, 3, 10, 20},
		{PaginationParams{Page: -1, PerPage: 500}, 1, 100, 0},
	}
	for _, tt := range tests {
		p := tt.in
		p.Validate()
		if p.Page != tt.wantPage || p.PerPage != tt.wantPer || p.Offset() != tt.wantOffset {
			t.Errorf("%+v -> page=%d per=%d offset=%d", tt.in, p.Page, p.PerPage, p.Offset())
		}
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("unexpected %+v", p)
	}
	if last := NewPagination(3, 10, 25); last.HasNext {
		t.Error("last page must not have next")
	}
}
