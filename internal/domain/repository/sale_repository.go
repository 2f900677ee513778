package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleFilterParams narrows a sales listing. The branch comes from the
// context (WithBranch).
type SaleFilterParams struct {
	pagination.PaginationParams
	Status *enum.SaleStatus
	From   *time.Time
	To     *time.Time
}

// SaleRepository persists sales with their lines and payments
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLines(ctx context.Context, lines []entity.SaleLine) error
	CreatePayments(ctx context.Context, payments []entity.Payment) error
	Update(ctx context.Context, sale *entity.Sale) error
	// NextNumber is max(number)+1 for the branch; callers hold the branch lock
	NextNumber(ctx context.Context, branchID uuid.UUID) (int64, error)
	ExistsByConfirmToken(ctx context.Context, token string) (bool, error)
	// GetWithDetails is restricted to the branch in ctx
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// SummarizeSession counts and totals the confirmed sales of a register session
	SummarizeSession(ctx context.Context, sessionID uuid.UUID) (int64, decimal.Decimal, error)
}

// RegisterSessionRepository stores register sessions
type RegisterSessionRepository interface {
	GetOpenByBranch(ctx context.Context, branchID uuid.UUID) (*entity.RegisterSession, error)
	Create(ctx context.Context, session *entity.RegisterSession) error
	Update(ctx context.Context, session *entity.RegisterSession) error
}
