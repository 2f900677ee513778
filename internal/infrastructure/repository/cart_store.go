package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"gorm.io/datatypes"
)

type dbCartStore struct {
	sessions domainRepo.PosSessionRepository
	ttl      time.Duration
}

// NewCartStore keeps carts in the pos_sessions table
func NewCartStore(sessions domainRepo.PosSessionRepository, ttl time.Duration) domainRepo.CartStore {
	return &dbCartStore{sessions: sessions, ttl: ttl}
}

func (s *dbCartStore) Load(ctx context.Context, key string) (*cart.Session, error) {
	row, err := s.sessions.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if row == nil || row.IsExpired() {
		return nil, nil
	}

	var session cart.Session
	if err := json.Unmarshal(row.State, &session); err != nil {
		// A corrupt row is dropped; the operator starts a fresh cart.
		logger.FromContext(ctx).Warn("discarding unreadable cart session", "session_key", key, "error", err)
		return nil, nil
	}
	return &session, nil
}

func (s *dbCartStore) Save(ctx context.Context, session *cart.Session) error {
	session.UpdatedAt = time.Now()
	state, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.sessions.Save(ctx, &entity.PosSession{
		SessionKey: session.Key,
		OperatorID: session.OperatorID,
		State:      datatypes.JSON(state),
		ExpiresAt:  session.UpdatedAt.Add(s.ttl),
	})
}

func (s *dbCartStore) Delete(ctx context.Context, key string) error {
	return s.sessions.Delete(ctx, key)
}
