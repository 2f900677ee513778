package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
)

func TestCartRequiresOwnRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "10", 5)

	if _, err := f.cart.Add(ctx, f.cashier, item.ID, 1); !errors.Is(err, entity.ErrNoOpenRegister) {
		t.Fatalf("closed register err = %v, want ErrNoOpenRegister", err)
	}

	f.open(t, f.cashier)
	other := Actor{OperatorID: uuid.New(), BranchID: f.branch.ID, SessionKey: "terminal-2"}
	if _, err := f.cart.Add(ctx, other, item.ID, 1); !errors.Is(err, entity.ErrRegisterHeldByOther) {
		t.Fatalf("other operator err = %v, want ErrRegisterHeldByOther", err)
	}
	if _, err := f.register.Close(ctx, f.branch.ID, other.OperatorID); !errors.Is(err, entity.ErrRegisterHeldByOther) {
		t.Errorf("close by other err = %v, want ErrRegisterHeldByOther", err)
	}

	// reads stay open to everyone
	if _, err := f.cart.View(ctx, other); err != nil {
		t.Errorf("view: %v", err)
	}
}

func TestCartAddChecksStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "10", 2)
	f.open(t, f.cashier)

	view := f.readyCart(t, f.cashier, item, 2)
	if view.Lines[0].Quantity != 2 || !view.Total.Equal(dec("20")) {
		t.Fatalf("view = %+v", view.Lines)
	}
	_, err := f.cart.Add(ctx, f.cashier, item.ID, 1)
	if !errors.Is(err, entity.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if err := f.settings.SetFlag(ctx, FlagAllowSellBelowStock, true, nil); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	view, err = f.cart.Add(ctx, f.cashier, item.ID, 1)
	if err != nil {
		t.Fatalf("add with bypass: %v", err)
	}
	if view.Lines[0].Quantity != 3 || !view.Flags.AllowSellBelowStock {
		t.Errorf("quantity = %d flags = %+v", view.Lines[0].Quantity, view.Flags)
	}
}

func TestCartAddRejectsInactiveVariant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := &entity.Variant{ProductName: "Remera", Name: "Old", SKU: "OLD", Price: dec("10"), VATRatePct: dec("21")}
	if err := f.repos.Catalog.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	f.setStock(t, item.ID, 2)
	f.open(t, f.cashier)

	if _, err := f.cart.Add(ctx, f.cashier, item.ID, 1); !errors.Is(err, entity.ErrVariantUnavailable) {
		t.Errorf("err = %v, want ErrVariantUnavailable", err)
	}
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		stock      int
		qty        int
		wantLines  int
		wantQty    int
		wantNotice bool
	}{
		{name: "within stock", stock: 5, qty: 4, wantLines: 1, wantQty: 4},
		{name: "clamped", stock: 3, qty: 10, wantLines: 1, wantQty: 3, wantNotice: true},
		{name: "below one", stock: 3, qty: 0, wantLines: 1, wantQty: 1},
		{name: "stock gone", stock: 0, qty: 2, wantLines: 0, wantNotice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			item := f.variant(t, "A", "10", 5)
			f.open(t, f.cashier)
			f.readyCart(t, f.cashier, item, 1)
			f.setStock(t, item.ID, tt.stock)

			view, err := f.cart.SetQuantity(ctx, f.cashier, item.ID, tt.qty)
			if err != nil {
				t.Fatalf("set quantity: %v", err)
			}
			if len(view.Lines) != tt.wantLines {
				t.Fatalf("lines = %d, want %d", len(view.Lines), tt.wantLines)
			}
			if tt.wantLines > 0 && view.Lines[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", view.Lines[0].Quantity, tt.wantQty)
			}
			if (view.Notice != "") != tt.wantNotice {
				t.Errorf("notice = %q", view.Notice)
			}
		})
	}
}

func TestCartSetPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "10", 5)
	f.open(t, f.cashier)
	f.readyCart(t, f.cashier, item, 2)

	if _, err := f.cart.SetPrice(ctx, f.cashier, item.ID, "8"); !errors.Is(err, entity.ErrPriceChangeDisabled) {
		t.Fatalf("err = %v, want ErrPriceChangeDisabled", err)
	}

	if err := f.settings.SetFlag(ctx, FlagAllowPriceChange, true, &f.branch.ID); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	view, err := f.cart.SetPrice(ctx, f.cashier, item.ID, "0")
	if err != nil {
		t.Fatalf("zero price: %v", err)
	}
	if !view.Lines[0].UnitPrice.Equal(dec("10")) || view.Notice == "" {
		t.Errorf("zero price applied: %+v notice %q", view.Lines[0], view.Notice)
	}

	view, err = f.cart.SetPrice(ctx, f.cashier, item.ID, "7,505")
	if err != nil {
		t.Fatalf("set price: %v", err)
	}
	if !view.Lines[0].UnitPrice.Equal(dec("7.51")) || !view.Total.Equal(dec("15.02")) {
		t.Errorf("price = %s total = %s", view.Lines[0].UnitPrice, view.Total)
	}
}

func TestCartDefaultDraftFollowsTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "10", 5)
	f.open(t, f.cashier)

	view, err := f.cart.Start(ctx, f.cashier)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(view.Payments) != 0 || view.ConfirmToken == "" {
		t.Fatalf("empty cart view = %+v", view)
	}

	view, _ = f.cart.Add(ctx, f.cashier, item.ID, 1)
	if len(view.Payments) != 1 {
		t.Fatalf("payments = %d, want the default draft", len(view.Payments))
	}
	if view.Settled {
		t.Errorf("zero draft reported as settled")
	}

	view, err = f.cart.Clear(ctx, f.cashier)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(view.Lines) != 0 || len(view.Payments) != 0 {
		t.Errorf("clear left %d lines %d payments", len(view.Lines), len(view.Payments))
	}
}

func TestCartDraftTenderSwitchClearsFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "100", 5)
	customer := f.customer(t, true)
	f.open(t, f.cashier)
	f.readyCart(t, f.cashier, item, 1)

	view, err := f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{CustomerID: &customer.ID})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if view.Payments[0].CustomerID == nil {
		t.Fatalf("customer not set")
	}

	view, err = f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{Tender: strPtr("CREDIT"), SurchargePct: strPtr("5")})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	d := view.Payments[0]
	if d.Tender != enum.TenderCredit || d.CustomerID != nil || d.Reference != "" {
		t.Errorf("store credit fields survived: %+v", d.PaymentDraft)
	}
	if d.Credit == nil || !d.Credit.SurchargePct.Equal(dec("5")) {
		t.Errorf("credit terms = %+v", d.Credit)
	}

	view, _ = f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{Tender: strPtr("cash")})
	if view.Payments[0].Credit != nil {
		t.Errorf("credit terms survived switch to cash")
	}

	if _, err := f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{Tender: strPtr("CHEQUE")}); !errors.Is(err, entity.ErrInvalidPayment) {
		t.Errorf("unknown tender err = %v", err)
	}
	if _, err := f.cart.SetDraft(ctx, f.cashier, 3, &DraftPatch{}); err == nil {
		t.Errorf("out of range draft accepted")
	}
}

func TestCartScan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.variant(t, "REM-AZ-M", "10", 5)
	f.variant(t, "REM-AZ-L", "10", 5)
	f.open(t, f.cashier)
	if _, err := f.cart.Start(ctx, f.cashier); err != nil {
		t.Fatalf("start: %v", err)
	}

	res, err := f.cart.Scan(ctx, f.cashier, "REM-AZ-M")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !res.Added || len(res.Cart.Lines) != 1 {
		t.Fatalf("exact scan = %+v", res)
	}

	res, err = f.cart.Scan(ctx, f.cashier, "rem-az")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Added || len(res.Matches) != 2 || res.Matches[0].Available != 5 {
		t.Errorf("partial scan = %+v", res)
	}
}

func TestRegisterCloseSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "25", 10)
	f.open(t, f.cashier)

	if _, err := f.register.Open(ctx, f.branch.ID, uuid.New()); !errors.Is(err, entity.ErrRegisterAlreadyOpen) {
		t.Fatalf("second open err = %v, want ErrRegisterAlreadyOpen", err)
	}

	for i := 0; i < 2; i++ {
		f.readyCart(t, f.cashier, item, 1)
		view, _ := f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{Amount: strPtr("25")})
		if _, err := f.checkout.Confirm(ctx, f.cashier, view.ConfirmToken); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	summary, err := f.register.Close(ctx, f.branch.ID, f.cashier.OperatorID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if summary.Count != 2 || !summary.Total.Equal(dec("50")) {
		t.Errorf("summary = %+v", summary)
	}
	if open, _ := f.register.Current(ctx, f.branch.ID); open != nil {
		t.Errorf("register still open")
	}
	if _, err := f.register.Close(ctx, f.branch.ID, f.cashier.OperatorID); !errors.Is(err, entity.ErrNoOpenRegister) {
		t.Errorf("second close err = %v", err)
	}
}

func TestRegisterForceClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, f.cashier)

	if _, err := f.register.ForceClose(ctx, f.branch.ID, uuid.New()); err != nil {
		t.Fatalf("force close: %v", err)
	}
	next := Actor{OperatorID: uuid.New(), BranchID: f.branch.ID, SessionKey: "terminal-2"}
	f.open(t, next)
}

func TestSettingsFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	value, source, err := f.settings.GetBool(ctx, FlagAllowPriceChange, &f.branch.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value || source != SourceGlobal {
		t.Errorf("default = %v from %s, want false from global", value, source)
	}
	row, err := f.repos.Settings.GetByKey(ctx, globalFlagKey(FlagAllowPriceChange))
	if err != nil || row == nil || row.BoolValue == nil || *row.BoolValue {
		t.Fatalf("global row not created as false: %+v %v", row, err)
	}

	if err := f.settings.SetFlag(ctx, FlagAllowPriceChange, true, nil); err != nil {
		t.Fatalf("set global: %v", err)
	}
	if err := f.settings.SetFlag(ctx, FlagAllowPriceChange, false, &f.branch.ID); err != nil {
		t.Fatalf("set branch: %v", err)
	}

	value, source, _ = f.settings.GetBool(ctx, FlagAllowPriceChange, &f.branch.ID)
	if value || source != SourceBranch {
		t.Errorf("branch = %v from %s, want false from branch", value, source)
	}
	other := uuid.New()
	value, source, _ = f.settings.GetBool(ctx, FlagAllowPriceChange, &other)
	if !value || source != SourceGlobal {
		t.Errorf("other branch = %v from %s, want true from global", value, source)
	}

	flags, err := f.settings.ListFlags(ctx, &f.branch.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(flags) != 2 {
		t.Fatalf("flags = %+v", flags)
	}

	if err := f.settings.SetFlag(ctx, "no_such_flag", true, nil); err == nil {
		t.Errorf("unknown flag accepted")
	}
}

func TestSettingsIssuer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	issuer, err := f.settings.Issuer(ctx)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	if issuer.Regime != enum.DefaultFiscalRegime || issuer.DisplayName != "" {
		t.Errorf("empty issuer = %+v", issuer)
	}

	issuer, err = f.settings.SetIssuer(ctx, &IssuerInput{
		DisplayName: strPtr("  Tienda <b>Sur</b> "),
		Regime:      strPtr("Responsable Inscripto"),
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if issuer.DisplayName != "Tienda Sur" {
		t.Errorf("display name = %q", issuer.DisplayName)
	}
	if issuer.Regime != enum.FiscalRegimeRegistered || issuer.RegimeLabel != "Responsable Inscripto" {
		t.Errorf("regime = %s (%s)", issuer.Regime, issuer.RegimeLabel)
	}
}

func TestSaleListScopedToBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	page, err := f.sales.List(ctx, f.branch.ID, &repository.SaleFilterParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 || page.Pagination.Total != 0 {
		t.Errorf("empty list = %+v", page)
	}
}

func TestCartViewStoresNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item := f.variant(t, "A", "10", 5)

	// no register is open and no cart is stored
	view, err := f.cart.View(ctx, f.cashier)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.ConfirmToken != "" || len(view.Lines) != 0 || len(view.Payments) != 0 {
		t.Errorf("empty view = %+v", view)
	}
	if stored, _ := f.carts.Load(ctx, f.cashier.SessionKey); stored != nil {
		t.Fatalf("view stored a session: %+v", stored)
	}

	session := cart.NewSession(f.cashier.SessionKey, f.cashier.OperatorID)
	session.Put(item.ID, 2, dec("10"))
	if err := f.carts.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	view, err = f.cart.View(ctx, f.cashier)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.Total.Equal(dec("20")) || view.ConfirmToken != session.ConfirmToken {
		t.Errorf("view = %+v", view)
	}
	stored, err := f.carts.Load(ctx, f.cashier.SessionKey)
	if err != nil || stored == nil {
		t.Fatalf("load: %v, %v", stored, err)
	}
	if len(stored.Payments) != 0 {
		t.Errorf("view seeded %d payment drafts", len(stored.Payments))
	}
}
