package repository

import (
	"context"

	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

// PosSessionRepository persists cart sessions as JSON rows
type PosSessionRepository interface {
	GetByKey(ctx context.Context, key string) (*entity.PosSession, error)
	Save(ctx context.Context, session *entity.PosSession) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CartStore loads and saves an operator session's cart. Load returns nil
// when the session has nothing stored.
type CartStore interface {
	Load(ctx context.Context, key string) (*cart.Session, error)
	Save(ctx context.Context, session *cart.Session) error
	Delete(ctx context.Context, key string) error
}
