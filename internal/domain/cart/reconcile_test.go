package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func credit(amount, pct string, installments int) PaymentDraft {
	return PaymentDraft{
		Tender: enum.TenderCredit,
		Amount: dec(amount),
		Credit: &CreditTerms{CardBrand: "VISA", Installments: installments, SurchargePct: dec(pct)},
	}
}

func cash(amount string) PaymentDraft {
	return PaymentDraft{Tender: enum.TenderCash, Amount: dec(amount)}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		drafts     []PaymentDraft
		base       string
		surcharges string
		due        string
		tendered   string
		balance    string
		settled    bool
	}{
		{
			name:   "single cash",
			drafts: []PaymentDraft{cash("100")}, base: "100",
			surcharges: "0", due: "100", tendered: "100", balance: "0", settled: true,
		},
		{
			name:   "credit with surcharge",
			drafts: []PaymentDraft{credit("100", "10", 3)}, base: "100",
			surcharges: "10", due: "110", tendered: "110", balance: "0", settled: true,
		},
		{
			name:   "split cash and credit",
			drafts: []PaymentDraft{cash("40"), credit("60", "15", 6)}, base: "100",
			surcharges: "9", due: "109", tendered: "109", balance: "0", settled: true,
		},
		{
			name:   "non-positive drafts ignored",
			drafts: []PaymentDraft{cash("0"), cash("-20"), credit("-5", "10", 1), cash("50")}, base: "80",
			surcharges: "0", due: "80", tendered: "50", balance: "30", settled: false,
		},
		{
			name:   "surcharge pct on non-credit ignored",
			drafts: []PaymentDraft{{Tender: enum.TenderDebit, Amount: dec("100"), Credit: &CreditTerms{Installments: 1, SurchargePct: dec("10")}}}, base: "100",
			surcharges: "0", due: "100", tendered: "100", balance: "0", settled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reconcile(tt.drafts, dec(tt.base))
			if !r.CreditSurcharges.Equal(dec(tt.surcharges)) || !r.TotalDue.Equal(dec(tt.due)) ||
				!r.TotalTendered.Equal(dec(tt.tendered)) || !r.Balance.Equal(dec(tt.balance)) {
				t.Errorf("got surcharges=%s due=%s tendered=%s balance=%s",
					r.CreditSurcharges, r.TotalDue, r.TotalTendered, r.Balance)
			}
			if r.Settled() != tt.settled {
				t.Errorf("Settled() = %v", r.Settled())
			}
		})
	}
}

func TestReconcileInstallmentEstimate(t *testing.T) {
	r := Reconcile([]PaymentDraft{credit("100", "10", 3)}, dec("100"))
	f := r.Drafts[0]
	if !f.CardTotal.Equal(dec("110")) || !f.InstallmentAmount.Equal(dec("36.67")) || !f.Coefficient.Equal(dec("1.1")) {
		t.Errorf("figures = %+v", f)
	}
}

func TestValidateTenders(t *testing.T) {
	customer := uuid.New()
	tests := []struct {
		name    string
		drafts  []PaymentDraft
		base    string
		want    error
		tenders int
	}{
		{name: "balanced cash", drafts: []PaymentDraft{cash("100")}, base: "100", tenders: 1},
		{name: "zero draft skipped", drafts: []PaymentDraft{cash("100"), cash("0")}, base: "100", tenders: 1},
		{name: "credit surcharge on top", drafts: []PaymentDraft{credit("100", "10", 3)}, base: "100", tenders: 1},
		{name: "credit base short of goods", drafts: []PaymentDraft{credit("90.91", "10", 3)}, base: "100", want: entity.ErrPaymentsUnbalanced},
		{name: "one cent short", drafts: []PaymentDraft{cash("99.99")}, base: "100", want: entity.ErrPaymentsUnbalanced},
		{name: "over tendered", drafts: []PaymentDraft{cash("60"), cash("50")}, base: "100", want: entity.ErrPaymentsUnbalanced},
		{name: "empty tender", drafts: []PaymentDraft{{Amount: dec("100")}}, base: "100", want: entity.ErrInvalidPayment},
		{name: "unknown tender", drafts: []PaymentDraft{{Tender: "CHEQUE", Amount: dec("100")}}, base: "100", want: entity.ErrInvalidPayment},
		{name: "negative amount", drafts: []PaymentDraft{cash("-1"), cash("101")}, base: "100", want: entity.ErrInvalidPayment},
		{name: "credit zero installments", drafts: []PaymentDraft{credit("100", "0", 0)}, base: "100", want: entity.ErrInvalidPayment},
		{name: "credit negative pct", drafts: []PaymentDraft{credit("100", "-1", 1)}, base: "100", want: entity.ErrInvalidPayment},
		{name: "credit without terms", drafts: []PaymentDraft{{Tender: enum.TenderCredit, Amount: dec("100")}}, base: "100", want: entity.ErrInvalidPayment},
		{name: "store credit without customer", drafts: []PaymentDraft{{Tender: enum.TenderStoreCredit, Amount: dec("100")}}, base: "100", want: entity.ErrInvalidPayment},
		{name: "store credit with customer", drafts: []PaymentDraft{{Tender: enum.TenderStoreCredit, Amount: dec("100"), CustomerID: &customer}}, base: "100", tenders: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenders, _, err := ValidateTenders(tt.drafts, dec(tt.base))
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tenders) != tt.tenders {
				t.Errorf("got %d tenders, want %d", len(tenders), tt.tenders)
			}
		})
	}
}

func TestSettledViewAlwaysConfirms(t *testing.T) {
	bases := []string{"0.01", "33.33", "100", "1234.56"}
	pcts := []string{"0", "3.5", "10", "27.99"}
	for _, b := range bases {
		for _, p := range pcts {
			base := dec(b)
			half := base.Div(decimal.NewFromInt(2)).Round(2)
			drafts := []PaymentDraft{cash(half.String()), credit(base.Sub(half).String(), p, 3)}
			r := Reconcile(drafts, base)
			_, _, err := ValidateTenders(drafts, base)
			if r.Settled() != (err == nil) {
				t.Errorf("base=%s pct=%s settled=%v err=%v", b, p, r.Settled(), err)
			}
		}
	}
}
