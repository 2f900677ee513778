package database

import (
	"errors"
	"fmt"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	applog "github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	applog.L.Info("connected to PostgreSQL", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// Indexes gorm tags cannot express
var rawIndexes = []string{
	// one open register per branch
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_register_sessions_open_branch
		ON register_sessions (branch_id) WHERE closed_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS ix_credit_movements_account_type
		ON credit_movements (account_id, type)`,
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	applog.L.Info("running database migrations")

	err := db.AutoMigrate(
		// Directory
		&entity.Branch{},
		&entity.Operator{},

		// Catalog and stock
		&entity.Variant{},
		&entity.BranchStock{},

		// Credit
		&entity.Customer{},
		&entity.CreditAccount{},
		&entity.CreditMovement{},
		&entity.InstallmentPlan{},

		// Sales
		&entity.RegisterSession{},
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.Payment{},

		// System
		&entity.AppSetting{},
		&entity.PosSession{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, stmt := range rawIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	applog.L.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the default branch and, when configured, the
// first admin operator. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB, seed config.SeedConfig) error {
	var branch entity.Branch
	if err := db.Order("created_at").First(&branch).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		branch = entity.Branch{Name: seed.DefaultBranchName, Active: true}
		if err := db.Create(&branch).Error; err != nil {
			return fmt.Errorf("failed to create default branch: %w", err)
		}
		applog.L.Info("default branch created", "branch_id", branch.ID, "name", branch.Name)
	}

	if seed.AdminUsername == "" || seed.AdminPassword == "" {
		return nil
	}

	var existing entity.Operator
	err := db.Where("username = ?", seed.AdminUsername).First(&existing).Error
	if err == nil {
		applog.L.Info("admin operator already exists", "username", seed.AdminUsername)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := entity.Operator{
		Username:     seed.AdminUsername,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		BranchID:     &branch.ID,
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin operator: %w", err)
	}
	applog.L.Info("admin operator created", "username", admin.Username)
	return nil
}
