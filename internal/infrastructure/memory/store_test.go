package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	branch := &entity.Branch{Name: "Centro", Active: true}
	if err := store.Repositories().Branches.Create(ctx, branch); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	variant := uuid.New()
	if err := store.Repositories().Stock.SetQuantity(ctx, &entity.BranchStock{BranchID: branch.ID, VariantID: variant, Quantity: 5}); err != nil {
		t.Fatalf("set stock: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context, repos *domainRepo.Repositories) error {
		row, err := repos.Stock.LockForUpdate(ctx, branch.ID, variant)
		if err != nil {
			return err
		}
		row.Quantity -= 3
		if err := repos.Stock.SetQuantity(ctx, row); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	qty, _ := store.Repositories().Stock.Available(ctx, branch.ID, variant)
	if qty != 5 {
		t.Errorf("quantity after rollback = %d, want 5", qty)
	}
}

func TestLockForUpdateCreatesMissingRow(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	branch, variant := uuid.New(), uuid.New()

	err := store.WithinTransaction(ctx, func(ctx context.Context, repos *domainRepo.Repositories) error {
		row, err := repos.Stock.LockForUpdate(ctx, branch, variant)
		if err != nil {
			return err
		}
		if row.Quantity != 0 || row.ID == uuid.Nil {
			t.Errorf("new row = %+v, want zero quantity with an id", row)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func TestRegisterCreateRejectsSecondOpenSession(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	branch := uuid.New()

	if err := repos.Registers.Create(ctx, &entity.RegisterSession{BranchID: branch, OpenedByID: uuid.New()}); err != nil {
		t.Fatalf("first open: %v", err)
	}
	err := repos.Registers.Create(ctx, &entity.RegisterSession{BranchID: branch, OpenedByID: uuid.New()})
	if !errors.Is(err, entity.ErrRegisterAlreadyOpen) {
		t.Errorf("second open err = %v, want ErrRegisterAlreadyOpen", err)
	}
}

func TestSalesAreScopedToBranch(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	mine, other := uuid.New(), uuid.New()

	for _, b := range []uuid.UUID{mine, mine, other} {
		sale := &entity.Sale{BranchID: b, Status: enum.SaleStatusConfirmed, Total: decimal.NewFromInt(10)}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}

	params := &domainRepo.SaleFilterParams{}
	sales, total, err := repos.Sales.List(domainRepo.WithBranch(ctx, mine), params)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(sales) != 2 {
		t.Errorf("got %d sales (total %d), want 2", len(sales), total)
	}

	if _, total, _ := repos.Sales.List(ctx, params); total != 0 {
		t.Errorf("list without branch returned %d sales", total)
	}
}

func TestNextNumberPerBranch(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	branch := uuid.New()

	n, _ := repos.Sales.NextNumber(ctx, branch)
	if n != 1 {
		t.Fatalf("first number = %d, want 1", n)
	}
	seven := int64(7)
	if err := repos.Sales.Create(ctx, &entity.Sale{BranchID: branch, Number: &seven}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n, _ = repos.Sales.NextNumber(ctx, branch); n != 8 {
		t.Errorf("next number = %d, want 8", n)
	}
	if n, _ = repos.Sales.NextNumber(ctx, uuid.New()); n != 1 {
		t.Errorf("other branch next number = %d, want 1", n)
	}

	dup := &entity.Sale{BranchID: branch, Number: &seven}
	if err := repos.Sales.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate number err = %v, want ErrDuplicate", err)
	}
}

func TestSaleConfirmTokenIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	token := uuid.NewString()

	if err := repos.Sales.Create(ctx, &entity.Sale{BranchID: uuid.New(), ConfirmToken: &token}); err != nil {
		t.Fatalf("create: %v", err)
	}
	again := token
	if err := repos.Sales.Create(ctx, &entity.Sale{BranchID: uuid.New(), ConfirmToken: &again}); !errors.Is(err, entity.ErrStaleToken) {
		t.Errorf("reused token err = %v, want ErrStaleToken", err)
	}
}

func TestCreditBalance(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	customer := &entity.Customer{NationalID: "30111222", FirstName: "Ana", LastName: "Diaz", Active: true}
	_ = repos.Credit.CreateCustomer(ctx, customer)
	account := &entity.CreditAccount{CustomerID: customer.ID, Active: true}
	_ = repos.Credit.CreateAccount(ctx, account)

	sale := uuid.New()
	movements := []entity.CreditMovement{
		{AccountID: account.ID, Type: enum.MovementDebit, Amount: decimal.NewFromInt(100), SaleID: &sale},
		{AccountID: account.ID, Type: enum.MovementCredit, Amount: decimal.NewFromInt(30)},
	}
	for i := range movements {
		if err := repos.Credit.CreateMovement(ctx, &movements[i]); err != nil {
			t.Fatalf("movement %d: %v", i, err)
		}
	}
	if err := repos.Credit.CreateMovement(ctx, &entity.CreditMovement{AccountID: account.ID, Type: enum.MovementDebit, Amount: decimal.NewFromInt(1)}); !errors.Is(err, entity.ErrDebitWithoutSale) {
		t.Errorf("debit without sale err = %v", err)
	}

	balance, _ := repos.Credit.Balance(ctx, account.ID)
	if !balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("balance = %s, want 70", balance)
	}

	got, _ := repos.Credit.GetAccountByCustomer(ctx, customer.ID)
	if got == nil || !got.Usable() {
		t.Errorf("account = %+v, want usable with customer loaded", got)
	}
}
