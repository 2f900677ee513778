// Package bootstrap opens the storage backend selected by configuration.
// The API server and the posctl CLI share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/cache"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/sangkips/retailpos-api/internal/infrastructure/memory"
	"github.com/sangkips/retailpos-api/internal/infrastructure/repository"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"gorm.io/gorm"
)

// Backend is everything the services need from storage
type Backend struct {
	// DB is nil when running on the in-memory store
	DB    *gorm.DB
	Repos *domainRepo.Repositories
	Tx    domainRepo.TxManager
	Carts domainRepo.CartStore
}

// Open connects to the configured store. With migrate set, the PostgreSQL
// schema is brought up to date first.
func Open(cfg *config.Config, migrate bool) (*Backend, error) {
	if cfg.POS.InMemory() {
		store := memory.NewStore()
		logger.L.Warn("running on the in-memory store; data is lost on exit")
		return &Backend{
			Repos: store.Repositories(),
			Tx:    store,
			Carts: cache.NewCartCache(cfg.POS.CartTTL),
		}, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	b := &Backend{
		DB:    db,
		Repos: repository.NewRepositories(db),
		Tx:    repository.NewTxManager(db, cfg.POS.LockTimeout, cfg.POS.TxMaxRetries),
	}
	switch cfg.POS.CartStore {
	case "memory":
		b.Carts = cache.NewCartCache(cfg.POS.CartTTL)
	default:
		b.Carts = repository.NewCartStore(repository.NewPosSessionRepository(db), cfg.POS.CartTTL)
	}
	return b, nil
}

// Seed creates the default branch and the configured admin operator when
// they do not exist yet
func (b *Backend) Seed(ctx context.Context, seed config.SeedConfig) error {
	if b.DB != nil {
		return database.SeedDefaultData(b.DB, seed)
	}

	admin := service.NewAdminService(b.Repos, b.Tx)
	branches, err := b.Repos.Branches.List(ctx)
	if err != nil {
		return err
	}
	var branch *entity.Branch
	if len(branches) > 0 {
		branch = &branches[0]
	} else if branch, err = admin.CreateBranch(ctx, seed.DefaultBranchName, ""); err != nil {
		return err
	}

	if seed.AdminUsername == "" || seed.AdminPassword == "" {
		return nil
	}
	existing, err := b.Repos.Operators.GetByUsername(ctx, seed.AdminUsername)
	if err != nil || existing != nil {
		return err
	}
	_, err = admin.CreateOperator(ctx, &service.CreateOperatorInput{
		Username:    seed.AdminUsername,
		Password:    seed.AdminPassword,
		DisplayName: "Administrator",
		Role:        entity.RoleAdmin,
		BranchID:    &branch.ID,
	})
	return err
}
