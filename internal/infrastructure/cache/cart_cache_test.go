package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/shopspring/decimal"
)

func TestCartCacheIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	store := NewCartCache(time.Hour)

	session := cart.NewSession("k1", uuid.New())
	variant := uuid.New()
	session.Put(variant, 2, decimal.NewFromInt(50))
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// mutating the caller's copy must not leak into the store
	session.Put(variant, 9, decimal.NewFromInt(50))

	loaded, err := store.Load(ctx, "k1")
	if err != nil || loaded == nil {
		t.Fatalf("load: %v, %v", loaded, err)
	}
	if got := loaded.Quantity(variant); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}
	if loaded.ConfirmToken != session.ConfirmToken {
		t.Errorf("token not preserved")
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if loaded, _ := store.Load(ctx, "k1"); loaded != nil {
		t.Errorf("load after delete = %+v, want nil", loaded)
	}
}

func TestCartCacheExpires(t *testing.T) {
	store := NewCartCache(20 * time.Millisecond)
	ctx := context.Background()
	_ = store.Save(ctx, cart.NewSession("k2", uuid.New()))
	time.Sleep(40 * time.Millisecond)
	if loaded, _ := store.Load(ctx, "k2"); loaded != nil {
		t.Errorf("expired session still loaded")
	}
}

func TestCartCacheKeepsSessionWithBadLine(t *testing.T) {
	ctx := context.Background()
	store := NewCartCache(time.Hour)

	good := uuid.New()
	raw := `{"key":"k3","confirm_token":"tok-3","lines":[` +
		`{"variant_id":"` + good.String() + `","quantity":2,"unit_price":"50.00"},` +
		`{"variant_id":"` + uuid.NewString() + `","quantity":1,"unit_price":"abc"}]}`
	store.c.Set("k3", []byte(raw), time.Hour)

	loaded, err := store.Load(ctx, "k3")
	if err != nil || loaded == nil {
		t.Fatalf("load: %v, %v", loaded, err)
	}
	if loaded.ConfirmToken != "tok-3" {
		t.Errorf("token = %q, want tok-3", loaded.ConfirmToken)
	}
	if got := loaded.Quantity(good); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}
	if !loaded.Total().Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", loaded.Total())
	}
}
