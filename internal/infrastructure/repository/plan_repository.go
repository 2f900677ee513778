package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type planRepository struct {
	db *gorm.DB
}

// NewInstallmentPlanRepository creates a new installment plan repository
func NewInstallmentPlanRepository(db *gorm.DB) domainRepo.InstallmentPlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("active = ?", true)
}

func (r *planRepository) first(q *gorm.DB) (*entity.InstallmentPlan, error) {
	var plan entity.InstallmentPlan
	err := q.First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindDefault(ctx context.Context, cardBrand string) (*entity.InstallmentPlan, error) {
	return r.first(r.active(ctx).Where("card_brand = ?", cardBrand).Order("installments ASC"))
}

func (r *planRepository) FindByInstallments(ctx context.Context, cardBrand string, installments int) (*entity.InstallmentPlan, error) {
	return r.first(r.active(ctx).Where("card_brand = ? AND installments = ?", cardBrand, installments))
}

func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InstallmentPlan, error) {
	return r.first(r.active(ctx).Where("id = ?", id))
}

func (r *planRepository) ListByBrand(ctx context.Context, cardBrand string) ([]entity.InstallmentPlan, error) {
	var plans []entity.InstallmentPlan
	err := r.active(ctx).Where("card_brand = ?", cardBrand).Order("installments ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) ListBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.active(ctx).
		Model(&entity.InstallmentPlan{}).
		Distinct("card_brand").
		Order("card_brand ASC").
		Pluck("card_brand", &brands).Error
	return brands, err
}

func (r *planRepository) Upsert(ctx context.Context, plan *entity.InstallmentPlan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_brand"}, {Name: "installments"}},
		DoUpdates: clause.AssignmentColumns([]string{"surcharge_pct", "active", "updated_at"}),
	}).Create(plan).Error
}
