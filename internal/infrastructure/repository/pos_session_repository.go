package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type posSessionRepository struct {
	db *gorm.DB
}

// NewPosSessionRepository creates a new POS session repository
func NewPosSessionRepository(db *gorm.DB) domainRepo.PosSessionRepository {
	return &posSessionRepository{db: db}
}

func (r *posSessionRepository) GetByKey(ctx context.Context, key string) (*entity.PosSession, error) {
	var s entity.PosSession
	err := r.db.WithContext(ctx).Where("session_key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *posSessionRepository) Save(ctx context.Context, s *entity.PosSession) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "expires_at", "updated_at"}),
	}).Create(s).Error
}

func (r *posSessionRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("session_key = ?", key).Delete(&entity.PosSession{}).Error
}

func (r *posSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.PosSession{})
	return result.RowsAffected, result.Error
}
