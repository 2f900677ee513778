package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetVariant(ctx context.Context, id uuid.UUID) (*entity.Variant, error) {
	var v entity.Variant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogRepository) GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []entity.Variant
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error
	return variants, err
}

func (r *catalogRepository) GetBySKU(ctx context.Context, sku string) (*entity.Variant, error) {
	var v entity.Variant
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogRepository) FindByCode(ctx context.Context, code string) ([]entity.Variant, error) {
	var variants []entity.Variant
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("sku = ? OR barcode = ?", code, code).
		Limit(2).
		Find(&variants).Error
	return variants, err
}

func (r *catalogRepository) Search(ctx context.Context, query string, limit int) ([]entity.Variant, error) {
	var variants []entity.Variant
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + query + "%"
		q = q.Where("product_name ILIKE ? OR name ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?", like, like, like, like)
	}
	err := q.Order("product_name ASC, name ASC").Limit(limit).Find(&variants).Error
	return variants, err
}

func (r *catalogRepository) Create(ctx context.Context, v *entity.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Available(ctx context.Context, branchID, variantID uuid.UUID) (int, error) {
	var stock entity.BranchStock
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND variant_id = ?", branchID, variantID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

func (r *stockRepository) AvailableMany(ctx context.Context, branchID uuid.UUID, variantIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	var rows []entity.BranchStock
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND variant_id IN ?", branchID, variantIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.VariantID] = row.Quantity
	}
	return out, nil
}

func (r *stockRepository) LockForUpdate(ctx context.Context, branchID, variantID uuid.UUID) (*entity.BranchStock, error) {
	db := r.db.WithContext(ctx)

	seed := entity.BranchStock{BranchID: branchID, VariantID: variantID, Quantity: 0}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}, {Name: "variant_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, err
	}

	var stock entity.BranchStock
	err = db.Scopes(ForUpdate()).
		Where("branch_id = ? AND variant_id = ?", branchID, variantID).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) SetQuantity(ctx context.Context, stock *entity.BranchStock) error {
	stock.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.BranchStock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]interface{}{"quantity": stock.Quantity, "updated_at": stock.UpdatedAt}).Error
}
