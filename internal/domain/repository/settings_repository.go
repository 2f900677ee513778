package repository

import (
	"context"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the key/value settings store
type SettingsRepository interface {
	GetByKey(ctx context.Context, key string) (*entity.AppSetting, error)
	// GetOrCreate returns the row for key, inserting def when missing
	GetOrCreate(ctx context.Context, def *entity.AppSetting) (*entity.AppSetting, error)
	Upsert(ctx context.Context, setting *entity.AppSetting) error
	ListByPrefix(ctx context.Context, prefix string) ([]entity.AppSetting, error)
}
