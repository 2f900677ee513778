package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSaleNumberTaken means the (branch, number) unique index fired, i.e. a
// number was assigned without holding the branch lock.
var ErrSaleNumberTaken = errors.New("sale number already assigned for branch")

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return saleWriteError(r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error)
}

func (r *saleRepository) CreateLines(ctx context.Context, lines []entity.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *saleRepository) CreatePayments(ctx context.Context, payments []entity.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Plan").Create(&payments).Error
}

// gorm's name for the uniqueIndex on Sale.ConfirmToken
const confirmTokenIndex = "idx_sales_confirm_token"

// saleWriteError maps the sales table's unique keys. A taken confirm token
// means another confirm with the same token committed first.
func saleWriteError(err error) error {
	if IsUniqueViolation(err, "ux_sales_branch_number") {
		return fmt.Errorf("%w: %v", ErrSaleNumberTaken, err)
	}
	if IsUniqueViolation(err, confirmTokenIndex) {
		return entity.ErrStaleToken.Wrap(err)
	}
	return err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return saleWriteError(r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error)
}

func (r *saleRepository) NextNumber(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&entity.Sale{}).
		Select("COALESCE(MAX(number), 0)").
		Where("branch_id = ?", branchID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *saleRepository) ExistsByConfirmToken(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Sale{}).
		Where("confirm_token = ?", token).
		Count(&count).Error
	return count > 0, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments").
		Preload("Payments.Plan").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(BranchScope(ctx))
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("sold_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("sold_at <= ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.
		Order("sold_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepository) SummarizeSession(ctx context.Context, sessionID uuid.UUID) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("register_session_id = ? AND status = ?", sessionID, enum.SaleStatusConfirmed).
		Scan(&row).Error
	return row.Count, row.Total, err
}

type registerSessionRepository struct {
	db *gorm.DB
}

// NewRegisterSessionRepository creates a new register session repository
func NewRegisterSessionRepository(db *gorm.DB) domainRepo.RegisterSessionRepository {
	return &registerSessionRepository{db: db}
}

func (r *registerSessionRepository) GetOpenByBranch(ctx context.Context, branchID uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND closed_at IS NULL", branchID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *registerSessionRepository) Create(ctx context.Context, session *entity.RegisterSession) error {
	err := r.db.WithContext(ctx).Create(session).Error
	if IsUniqueViolation(err, "ux_register_sessions_open_branch") {
		return entity.ErrRegisterAlreadyOpen
	}
	return err
}

func (r *registerSessionRepository) Update(ctx context.Context, session *entity.RegisterSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
