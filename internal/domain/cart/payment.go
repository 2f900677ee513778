package cart

import (
	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

// CreditTerms only exist on CREDIT drafts
type CreditTerms struct {
	CardBrand    string          `json:"card_brand,omitempty"`
	PlanID       *uuid.UUID      `json:"plan_id,omitempty"`
	Installments int             `json:"installments"`
	SurchargePct decimal.Decimal `json:"surcharge_pct"`
}

// TerminalInfo is informational data copied from the card terminal slip
type TerminalInfo struct {
	Provider   string `json:"provider,omitempty"`
	TerminalID string `json:"terminal_id,omitempty"`
	Batch      string `json:"batch,omitempty"`
	Voucher    string `json:"voucher,omitempty"`
	AuthCode   string `json:"auth_code,omitempty"`
	CardBrand  string `json:"card_brand,omitempty"`
	Last4      string `json:"last4,omitempty"`
}

// PaymentDraft is a tender being prepared. Credit is set only for CREDIT
// and CustomerID only for STORE_CREDIT.
type PaymentDraft struct {
	Tender     enum.TenderType `json:"tender"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	Credit     *CreditTerms    `json:"credit,omitempty"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
	Terminal   TerminalInfo    `json:"terminal"`
}

func DefaultDraft() PaymentDraft {
	return PaymentDraft{Tender: enum.TenderCash, Amount: decimal.Zero}
}

// SetTender switches the tender, dropping fields that belong to the old one
func (d *PaymentDraft) SetTender(t enum.TenderType) {
	if t == d.Tender {
		return
	}
	prev := d.Tender
	d.Tender = t

	if t != enum.TenderCredit {
		d.Credit = nil
	} else if d.Credit == nil {
		d.Credit = &CreditTerms{Installments: 1, SurchargePct: decimal.Zero}
	}
	if prev == enum.TenderStoreCredit || t == enum.TenderStoreCredit {
		d.CustomerID = nil
		d.Reference = ""
	}
}

// UsePlan links a plan and takes installments and surcharge from it
func (d *PaymentDraft) UsePlan(plan *entity.InstallmentPlan) {
	d.SetTender(enum.TenderCredit)
	id := plan.ID
	d.Credit = &CreditTerms{
		CardBrand:    plan.CardBrand,
		PlanID:       &id,
		Installments: plan.Installments,
		SurchargePct: plan.SurchargePct,
	}
}

// UseBrandWithoutPlan records a brand that has no active plan; terms stay
// operator-entered.
func (d *PaymentDraft) UseBrandWithoutPlan(brand string) {
	d.SetTender(enum.TenderCredit)
	d.Credit = &CreditTerms{CardBrand: brand, Installments: 1, SurchargePct: decimal.Zero}
}

// SetManualTerms overrides installments and surcharge, unlinking any plan
func (d *PaymentDraft) SetManualTerms(installments *int, pct *decimal.Decimal) {
	if d.Tender != enum.TenderCredit || d.Credit == nil {
		return
	}
	d.Credit.PlanID = nil
	if installments != nil {
		d.Credit.Installments = *installments
	}
	if pct != nil {
		d.Credit.SurchargePct = *pct
	}
}

// SetCustomer charges the draft to a customer's credit account
func (d *PaymentDraft) SetCustomer(c *entity.Customer) {
	d.SetTender(enum.TenderStoreCredit)
	id := c.ID
	d.CustomerID = &id
	d.Reference = c.DisplayLabel()
}

// Surcharge is round2(amount x pct / 100) for a positive CREDIT draft
func (d *PaymentDraft) Surcharge() decimal.Decimal {
	if d.Tender != enum.TenderCredit || d.Credit == nil || !d.Amount.IsPositive() {
		return decimal.Zero
	}
	return money.Percent(d.Amount, d.Credit.SurchargePct)
}

// Installments is 1 for anything but CREDIT
func (d *PaymentDraft) Installments() int {
	if d.Credit == nil || d.Credit.Installments < 1 {
		return 1
	}
	return d.Credit.Installments
}

// SurchargePct is zero for anything but CREDIT
func (d *PaymentDraft) SurchargePct() decimal.Decimal {
	if d.Credit == nil {
		return decimal.Zero
	}
	return d.Credit.SurchargePct
}
