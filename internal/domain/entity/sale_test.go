package entity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSaleLineRecomputeIgnoresCallerValues(t *testing.T) {
	line := SaleLine{
		Quantity:    3,
		UnitPrice:   dec("121"),
		VATRatePct:  dec("21"),
		Subtotal:    dec("1"),
		SubtotalNet: dec("999"),
	}
	if err := line.Recompute(); err != nil {
		t.Fatal(err)
	}
	if !line.Subtotal.Equal(dec("363")) {
		t.Errorf("Subtotal = %s", line.Subtotal)
	}
	if !line.SubtotalNet.Equal(dec("300")) || !line.SubtotalVAT.Equal(dec("63")) {
		t.Errorf("subtotal decomposition = %s + %s", line.SubtotalNet, line.SubtotalVAT)
	}
	if !line.UnitNet.Equal(dec("100")) || !line.UnitVAT.Equal(dec("21")) {
		t.Errorf("unit decomposition = %s + %s", line.UnitNet, line.UnitVAT)
	}

	line.Quantity = 0
	if err := line.Recompute(); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine, got %v", err)
	}
}

func TestPaymentNormalize(t *testing.T) {
	plan := uuid.New()
	tests := []struct {
		name          string
		p             Payment
		wantSurcharge string
		wantCoef      string
		wantInst      int
		wantPlan      bool
	}{
		{
			name:          "credit keeps surcharge",
			p:             Payment{Tender: enum.TenderCredit, Amount: dec("100"), Installments: 3, SurchargePct: dec("10"), PlanID: &plan},
			wantSurcharge: "10", wantCoef: "1.1", wantInst: 3, wantPlan: true,
		},
		{
			name:          "cash is neutral",
			p:             Payment{Tender: enum.TenderCash, Amount: dec("100"), Installments: 6, SurchargePct: dec("25"), SurchargeAmount: dec("25"), PlanID: &plan},
			wantSurcharge: "0", wantCoef: "1", wantInst: 1, wantPlan: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			p.Normalize()
			if !p.SurchargeAmount.Equal(dec(tt.wantSurcharge)) || !p.Coefficient.Equal(dec(tt.wantCoef)) {
				t.Errorf("surcharge=%s coefficient=%s", p.SurchargeAmount, p.Coefficient)
			}
			if p.Installments != tt.wantInst || (p.PlanID != nil) != tt.wantPlan {
				t.Errorf("installments=%d plan=%v", p.Installments, p.PlanID)
			}
		})
	}
}

func TestSaleCode(t *testing.T) {
	s := Sale{}
	if s.Code() != "" {
		t.Error("unnumbered sale must have empty code")
	}
	n := int64(42)
	s.Number = &n
	if got := s.Code(); got != "V00000000042" {
		t.Errorf("Code = %s", got)
	}
}

func TestCreditMovementValidate(t *testing.T) {
	sale := uuid.New()
	tests := []struct {
		name string
		m    CreditMovement
		want error
	}{
		{"debit with sale", CreditMovement{Type: enum.MovementDebit, Amount: dec("10"), SaleID: &sale}, nil},
		{"debit without sale", CreditMovement{Type: enum.MovementDebit, Amount: dec("10")}, ErrDebitWithoutSale},
		{"credit with sale", CreditMovement{Type: enum.MovementCredit, Amount: dec("10"), SaleID: &sale}, ErrCreditWithSale},
		{"zero amount", CreditMovement{Type: enum.MovementCredit, Amount: dec("0")}, ErrMovementAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInsufficientStockCarriesShortfall(t *testing.T) {
	err := InsufficientStock(StockShortfall{SKU: "A-1", Available: 1, Requested: 3})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected ErrInsufficientStock")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected AppError")
	}
	short, ok := appErr.Errors.(StockShortfall)
	if !ok || short.Missing() != 2 {
		t.Errorf("unexpected details %#v", appErr.Errors)
	}
}
