package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"gorm.io/gorm"
)

// NewRepositories binds every repository to db, which may be a transaction
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Branches:  NewBranchRepository(db),
		Operators: NewOperatorRepository(db),
		Catalog:   NewCatalogRepository(db),
		Stock:     NewStockRepository(db),
		Credit:    NewCreditRepository(db),
		Plans:     NewInstallmentPlanRepository(db),
		Registers: NewRegisterSessionRepository(db),
		Sales:     NewSaleRepository(db),
		Settings:  NewSettingsRepository(db),
	}
}

type txManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
	maxRetries  int
}

// NewTxManager creates a transaction manager. Each transaction waits at most
// lockTimeout for a row lock and is re-run up to maxRetries times on
// deadlock or serialization failure.
func NewTxManager(db *gorm.DB, lockTimeout time.Duration, maxRetries int) domainRepo.TxManager {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &txManager{db: db, lockTimeout: lockTimeout, maxRetries: maxRetries}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.Repositories) error) error {
	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if m.lockTimeout > 0 {
				// SET LOCAL takes no bind parameters
				stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return fn(ctx, NewRepositories(tx))
		})
		if !IsRetryable(err) {
			break
		}
		logger.FromContext(ctx).Warn("transaction conflict, retrying", "attempt", attempt+1, "error", err)
	}

	if IsLockTimeout(err) {
		return entity.ErrLockTimeout.Wrap(err)
	}
	return err
}
