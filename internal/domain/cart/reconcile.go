package cart

import (
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

// DraftFigures are the computed amounts of one draft
type DraftFigures struct {
	Index             int             `json:"index"`
	Counted           bool            `json:"counted"`
	Surcharge         decimal.Decimal `json:"surcharge"`
	CardTotal         decimal.Decimal `json:"card_total"`
	Coefficient       decimal.Decimal `json:"coefficient"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
}

// Reconciliation compares what is tendered with what is due
type Reconciliation struct {
	BaseTotal        decimal.Decimal `json:"base_total"`
	BaseTendered     decimal.Decimal `json:"base_tendered"`
	CreditSurcharges decimal.Decimal `json:"credit_surcharges"`
	TotalDue         decimal.Decimal `json:"total_due"`
	TotalTendered    decimal.Decimal `json:"total_tendered"`
	Balance          decimal.Decimal `json:"balance"`
	Drafts           []DraftFigures  `json:"drafts"`
}

// Settled reports whether confirm's balance checks would pass
func (r Reconciliation) Settled() bool {
	return r.BaseTendered.Equal(r.BaseTotal) && r.TotalTendered.Equal(r.TotalDue)
}

// Reconcile computes per-draft surcharges and the due/tendered totals.
// Drafts with a non-positive amount are ignored. Both the live cart view and
// confirm go through here.
func Reconcile(drafts []PaymentDraft, baseTotal decimal.Decimal) Reconciliation {
	r := Reconciliation{
		BaseTotal:        money.Round2(baseTotal),
		BaseTendered:     decimal.Zero,
		CreditSurcharges: decimal.Zero,
		TotalTendered:    decimal.Zero,
		Drafts:           make([]DraftFigures, len(drafts)),
	}

	for i := range drafts {
		d := &drafts[i]
		f := DraftFigures{
			Index:             i,
			Surcharge:         decimal.Zero,
			CardTotal:         decimal.Zero,
			Coefficient:       money.Coefficient(d.SurchargePct()),
			InstallmentAmount: decimal.Zero,
		}
		if d.Amount.IsPositive() {
			amount := money.Round2(d.Amount)
			f.Counted = true
			f.Surcharge = d.Surcharge()
			f.CardTotal = amount.Add(f.Surcharge)
			f.InstallmentAmount = money.Round2(f.CardTotal.Div(decimal.NewFromInt(int64(d.Installments()))))

			r.BaseTendered = r.BaseTendered.Add(amount)
			r.TotalTendered = r.TotalTendered.Add(f.CardTotal)
			if d.Tender == enum.TenderCredit {
				r.CreditSurcharges = r.CreditSurcharges.Add(f.Surcharge)
			}
		}
		r.Drafts[i] = f
	}

	r.TotalDue = r.BaseTotal.Add(r.CreditSurcharges)
	r.Balance = r.TotalDue.Sub(r.TotalTendered)
	return r
}

// Tender is a draft that passed confirm validation
type Tender struct {
	Index     int
	Draft     PaymentDraft
	Surcharge decimal.Decimal
}

// ValidateTenders checks every draft's shape and then both balance
// equalities, returning the drafts that will become payments.
func ValidateTenders(drafts []PaymentDraft, baseTotal decimal.Decimal) ([]Tender, Reconciliation, error) {
	for i := range drafts {
		if err := validateDraft(i, &drafts[i]); err != nil {
			return nil, Reconciliation{}, err
		}
	}

	r := Reconcile(drafts, baseTotal)
	if !r.BaseTendered.Equal(r.BaseTotal) {
		return nil, r, entity.ErrPaymentsUnbalanced.WithMessage(
			"Payments (" + r.BaseTendered.StringFixed(2) + ") do not match the cart total (" + r.BaseTotal.StringFixed(2) + ")")
	}
	if !r.TotalTendered.Equal(r.TotalDue) {
		return nil, r, entity.ErrTenderedMismatch.WithMessage(
			"Collected " + r.TotalTendered.StringFixed(2) + " but " + r.TotalDue.StringFixed(2) + " is due")
	}

	tenders := make([]Tender, 0, len(drafts))
	for i, f := range r.Drafts {
		if !f.Counted {
			continue
		}
		tenders = append(tenders, Tender{Index: i, Draft: drafts[i], Surcharge: f.Surcharge})
	}
	return tenders, r, nil
}

func validateDraft(i int, d *PaymentDraft) error {
	if d.Tender == "" {
		return entity.InvalidPayment(i, "tender type is required")
	}
	if !d.Tender.Valid() {
		return entity.InvalidPayment(i, "unknown tender type "+string(d.Tender))
	}
	if d.Amount.IsNegative() {
		return entity.InvalidPayment(i, "amount must not be negative")
	}
	if d.Tender == enum.TenderCredit {
		if d.Credit == nil || d.Credit.Installments < 1 {
			return entity.InvalidPayment(i, "installments must be at least 1")
		}
		if d.Credit.SurchargePct.IsNegative() {
			return entity.InvalidPayment(i, "surcharge must not be negative")
		}
	}
	if d.Tender == enum.TenderStoreCredit && d.Amount.IsPositive() && d.CustomerID == nil {
		return entity.InvalidPayment(i, "store credit requires a customer")
	}
	return nil
}
