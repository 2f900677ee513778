package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
)

// CartCache keeps carts in process memory. Carts are lost on restart, so it
// suits single-instance deployments and tests.
type CartCache struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewCartCache creates a cart store whose entries expire ttl after their
// last save
func NewCartCache(ttl time.Duration) *CartCache {
	return &CartCache{c: gocache.New(ttl, 10*time.Minute), ttl: ttl}
}

// Entries are stored encoded so callers never share a session value.
func (s *CartCache) Load(ctx context.Context, key string) (*cart.Session, error) {
	raw, ok := s.c.Get(key)
	if !ok {
		return nil, nil
	}
	var session cart.Session
	if err := json.Unmarshal(raw.([]byte), &session); err != nil {
		s.c.Delete(key)
		return nil, nil
	}
	return &session, nil
}

func (s *CartCache) Save(ctx context.Context, session *cart.Session) error {
	session.UpdatedAt = time.Now()
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.c.Set(session.Key, raw, s.ttl)
	return nil
}

func (s *CartCache) Delete(ctx context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

var _ domainRepo.CartStore = (*CartCache)(nil)
