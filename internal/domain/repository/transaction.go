package repository

import "context"

// Repositories bundles every repository bound to one connection or
// transaction.
type Repositories struct {
	Branches  BranchRepository
	Operators OperatorRepository
	Catalog   CatalogRepository
	Stock     StockRepository
	Credit    CreditRepository
	Plans     InstallmentPlanRepository
	Registers RegisterSessionRepository
	Sales     SaleRepository
	Settings  SettingsRepository
}

// TxManager runs fn inside one atomic unit. Every write made through the
// repositories passed to fn commits together or not at all. fn may be
// re-run when the store reports a retryable conflict.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
