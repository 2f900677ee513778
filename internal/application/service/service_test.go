package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/cache"
	"github.com/sangkips/retailpos-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
)

type fixture struct {
	store    *memory.Store
	repos    *repository.Repositories
	carts    *cache.CartCache
	register *RegisterService
	settings *SettingsService
	cart     *CartService
	checkout *CheckoutService
	sales    *SaleService
	branch   *entity.Branch
	cashier  Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	repos := store.Repositories()
	carts := cache.NewCartCache(time.Hour)
	settings := NewSettingsService(repos.Settings)
	register := NewRegisterService(repos, store)

	branch := &entity.Branch{Name: "Centro", Active: true}
	if err := repos.Branches.Create(ctx, branch); err != nil {
		t.Fatalf("create branch: %v", err)
	}

	return &fixture{
		store:    store,
		repos:    repos,
		carts:    carts,
		register: register,
		settings: settings,
		cart:     NewCartService(repos, carts, register, settings),
		checkout: NewCheckoutService(repos, store, carts, register, settings),
		sales:    NewSaleService(repos),
		branch:   branch,
		cashier:  Actor{OperatorID: uuid.New(), BranchID: branch.ID, SessionKey: "terminal-1"},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func (f *fixture) variant(t *testing.T, sku, price string, stock int) *entity.Variant {
	t.Helper()
	ctx := context.Background()
	v := &entity.Variant{ProductName: "Remera", Name: sku, SKU: sku, Price: dec(price), VATRatePct: dec("21"), Active: true}
	if err := f.repos.Catalog.Create(ctx, v); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	f.setStock(t, v.ID, stock)
	return v
}

func (f *fixture) setStock(t *testing.T, variantID uuid.UUID, qty int) {
	t.Helper()
	row := &entity.BranchStock{BranchID: f.branch.ID, VariantID: variantID, Quantity: qty}
	if err := f.repos.Stock.SetQuantity(context.Background(), row); err != nil {
		t.Fatalf("set stock: %v", err)
	}
}

func (f *fixture) stock(t *testing.T, variantID uuid.UUID) int {
	t.Helper()
	qty, err := f.repos.Stock.Available(context.Background(), f.branch.ID, variantID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	return qty
}

func (f *fixture) open(t *testing.T, actor Actor) {
	t.Helper()
	if _, err := f.register.Open(context.Background(), actor.BranchID, actor.OperatorID); err != nil {
		t.Fatalf("open register: %v", err)
	}
}

func (f *fixture) customer(t *testing.T, active bool) *entity.Customer {
	t.Helper()
	ctx := context.Background()
	c := &entity.Customer{NationalID: uuid.NewString()[:8], FirstName: "Ana", LastName: "Diaz", Active: true}
	if err := f.repos.Credit.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := f.repos.Credit.CreateAccount(ctx, &entity.CreditAccount{CustomerID: c.ID, Active: active}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return c
}

func (f *fixture) saleCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.repos.Sales.List(repository.WithBranch(context.Background(), f.branch.ID), &repository.SaleFilterParams{})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	return total
}
