package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit ledger repository
func NewCreditRepository(db *gorm.DB) domainRepo.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creditRepository) GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error) {
	return r.findAccount(r.db.WithContext(ctx), customerID)
}

// The customer is preloaded by a second query, so only the account row is locked.
func (r *creditRepository) LockAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error) {
	return r.findAccount(r.db.WithContext(ctx).Scopes(ForUpdate()), customerID)
}

func (r *creditRepository) findAccount(db *gorm.DB, customerID uuid.UUID) (*entity.CreditAccount, error) {
	var account entity.CreditAccount
	err := db.Preload("Customer").Where("customer_id = ?", customerID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *creditRepository) CreateMovement(ctx context.Context, m *entity.CreditMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *creditRepository) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.CreditMovement{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", enum.MovementDebit).
		Where("account_id = ?", accountID).
		Scan(&balance).Error
	return balance, err
}

func (r *creditRepository) CreateCustomer(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *creditRepository) CreateAccount(ctx context.Context, a *entity.CreditAccount) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(a).Error
}
