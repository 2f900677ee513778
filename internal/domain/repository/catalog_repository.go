package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

// CatalogRepository is the read side of the product catalog
type CatalogRepository interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*entity.Variant, error)
	GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error)
	// FindByCode matches active variants by exact SKU or barcode
	FindByCode(ctx context.Context, code string) ([]entity.Variant, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Variant, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Variant, error)
	Create(ctx context.Context, variant *entity.Variant) error
}

// StockRepository is the per-branch stock ledger
type StockRepository interface {
	// Available is a non-locking read; a missing row is zero
	Available(ctx context.Context, branchID, variantID uuid.UUID) (int, error)
	AvailableMany(ctx context.Context, branchID uuid.UUID, variantIDs []uuid.UUID) (map[uuid.UUID]int, error)
	// LockForUpdate creates the row with quantity zero when missing, then
	// locks it for the rest of the transaction
	LockForUpdate(ctx context.Context, branchID, variantID uuid.UUID) (*entity.BranchStock, error)
	SetQuantity(ctx context.Context, stock *entity.BranchStock) error
}
