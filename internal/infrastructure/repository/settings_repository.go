package repository

import (
	"context"
	"errors"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByKey(ctx context.Context, key string) (*entity.AppSetting, error) {
	var setting entity.AppSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) GetOrCreate(ctx context.Context, def *entity.AppSetting) (*entity.AppSetting, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(def).Error
	if err != nil {
		return nil, err
	}
	return r.GetByKey(ctx, def.Key)
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *entity.AppSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"bool_value", "str_value", "description", "updated_at"}),
	}).Create(setting).Error
}

func (r *settingsRepository) ListByPrefix(ctx context.Context, prefix string) ([]entity.AppSetting, error) {
	var settings []entity.AppSetting
	err := r.db.WithContext(ctx).Where("key LIKE ?", prefix+"%").Order("key ASC").Find(&settings).Error
	return settings, err
}
