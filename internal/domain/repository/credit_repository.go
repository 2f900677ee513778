package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreditRepository is the write side of the customer credit ledger
type CreditRepository interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetAccountByCustomer returns the account with its customer preloaded
	GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error)
	// LockAccountByCustomer is GetAccountByCustomer holding the account row lock
	LockAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error)
	CreateMovement(ctx context.Context, movement *entity.CreditMovement) error
	Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	CreateCustomer(ctx context.Context, customer *entity.Customer) error
	CreateAccount(ctx context.Context, account *entity.CreditAccount) error
}

// InstallmentPlanRepository looks up active installment plans. Inactive
// plans are never returned.
type InstallmentPlanRepository interface {
	FindDefault(ctx context.Context, cardBrand string) (*entity.InstallmentPlan, error)
	FindByInstallments(ctx context.Context, cardBrand string, installments int) (*entity.InstallmentPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.InstallmentPlan, error)
	ListByBrand(ctx context.Context, cardBrand string) ([]entity.InstallmentPlan, error)
	ListBrands(ctx context.Context) ([]string, error)
	// Upsert inserts or updates by (card brand, installments), active or not
	Upsert(ctx context.Context, plan *entity.InstallmentPlan) error
}
