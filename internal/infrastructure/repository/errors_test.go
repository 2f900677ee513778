package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

func TestSaleWriteError(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "confirm token taken", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: confirmTokenIndex}, want: entity.ErrStaleToken},
		{name: "number taken", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "ux_sales_branch_number"}, want: ErrSaleNumberTaken},
		{name: "other error", err: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := saleWriteError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
