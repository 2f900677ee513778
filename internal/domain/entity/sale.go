package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a POS ticket. It is created in DRAFT inside the confirm
// transaction and leaves it CONFIRMED, numbered, and carrying a snapshot of
// the issuer's identity at that moment.
type Sale struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BranchID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_sales_branch_number,priority:1;index" json:"branch_id"`
	Number            *int64          `gorm:"uniqueIndex:ux_sales_branch_number,priority:2" json:"number,omitempty"`
	RegisterSessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"register_session_id"`
	OperatorID        uuid.UUID       `gorm:"type:uuid;not null" json:"operator_id"`
	CustomerID        *uuid.UUID      `gorm:"type:uuid" json:"customer_id,omitempty"`
	ConfirmToken      *string         `gorm:"size:64;uniqueIndex" json:"-"`
	SoldAt            time.Time       `gorm:"not null;index" json:"sold_at"`
	Status            enum.SaleStatus `gorm:"type:smallint;not null;default:0" json:"status"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	SurchargeTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"surcharge_total"`

	IssuerName      string `gorm:"size:255" json:"issuer_name"`
	IssuerLegalName string `gorm:"size:255" json:"issuer_legal_name"`
	IssuerTaxID     string `gorm:"size:20" json:"issuer_tax_id"`
	IssuerAddress   string `gorm:"size:255" json:"issuer_address"`
	IssuerRegime    string `gorm:"size:30" json:"issuer_regime"`

	FiscalNet           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fiscal_net"`
	FiscalVAT           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fiscal_vat"`
	FiscalOtherIndirect decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fiscal_other_indirect"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines    []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
	Payments []Payment  `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Sale) TableName() string {
	return "sales"
}

// Code is the printable ticket code, empty until numbered
func (s *Sale) Code() string {
	if s.Number == nil {
		return ""
	}
	return fmt.Sprintf("V%011d", *s.Number)
}

// Breakdown returns the aggregate tax snapshot
func (s *Sale) Breakdown() money.Breakdown {
	return money.Breakdown{Net: s.FiscalNet, VAT: s.FiscalVAT, OtherIndirect: s.FiscalOtherIndirect}
}

// ErrInvalidLine is returned when a line cannot be priced
var ErrInvalidLine = errors.New("sale line: quantity must be positive")

// SaleLine is one variant on a sale. Subtotal and decomposition are derived
// from quantity, unit price and rate every time the line is saved.
type SaleLine struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	VariantID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	Description        string          `gorm:"size:255" json:"description"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	VATRatePct         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate_pct"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	UnitNet            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_net"`
	UnitVAT            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_vat"`
	SubtotalNet        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_net"`
	SubtotalVAT        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_vat"`
	SubtotalOtherTaxes decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_other_taxes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeSave runs on create and update alike
func (l *SaleLine) BeforeSave(tx *gorm.DB) error {
	return l.Recompute()
}

func (SaleLine) TableName() string {
	return "sale_lines"
}

// Recompute derives subtotal and both decompositions from quantity, unit
// price and rate, ignoring whatever those fields held before.
func (l *SaleLine) Recompute() error {
	if l.Quantity < 1 {
		return ErrInvalidLine
	}
	l.UnitPrice = money.Round2(l.UnitPrice)
	l.Subtotal = money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))

	unit, err := money.Decompose(l.UnitPrice, l.VATRatePct)
	if err != nil {
		return fmt.Errorf("sale line %s: %w", l.VariantID, err)
	}
	sub, err := money.Decompose(l.Subtotal, l.VATRatePct)
	if err != nil {
		return fmt.Errorf("sale line %s: %w", l.VariantID, err)
	}
	l.UnitNet, l.UnitVAT = unit.Net, unit.VAT
	l.SubtotalNet, l.SubtotalVAT, l.SubtotalOtherTaxes = sub.Net, sub.VAT, sub.OtherIndirect
	return nil
}

func (l *SaleLine) Breakdown() money.Breakdown {
	return money.Breakdown{Net: l.SubtotalNet, VAT: l.SubtotalVAT, OtherIndirect: l.SubtotalOtherTaxes}
}

// Payment is one tender on a confirmed sale. Amount is the base that goes
// against the goods; surcharge is collected on top for CREDIT only.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	Tender          enum.TenderType `gorm:"size:20;not null" json:"tender"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Installments    int             `gorm:"not null;default:1" json:"installments"`
	SurchargePct    decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"surcharge_pct"`
	SurchargeAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"surcharge_amount"`
	Coefficient     decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"coefficient"`
	Reference       string          `gorm:"size:120" json:"reference,omitempty"`
	PlanID          *uuid.UUID      `gorm:"type:uuid" json:"plan_id,omitempty"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid" json:"customer_id,omitempty"`

	TerminalProvider string `gorm:"size:30" json:"terminal_provider,omitempty"`
	TerminalID       string `gorm:"size:50" json:"terminal_id,omitempty"`
	TerminalBatch    string `gorm:"size:30" json:"terminal_batch,omitempty"`
	TerminalVoucher  string `gorm:"size:30" json:"terminal_voucher,omitempty"`
	TerminalAuthCode string `gorm:"size:30" json:"terminal_auth_code,omitempty"`
	CardBrand        string `gorm:"size:30" json:"card_brand,omitempty"`
	CardLast4        string `gorm:"size:4" json:"card_last4,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Plan *InstallmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

func (Payment) TableName() string {
	return "payments"
}

// Normalize rounds the amounts and neutralizes installment fields on
// tenders that do not carry a surcharge.
func (p *Payment) Normalize() {
	p.Amount = money.Round2(p.Amount)
	if !p.Tender.HasSurcharge() {
		p.Installments = 1
		p.SurchargePct = decimal.Zero
		p.SurchargeAmount = decimal.Zero
		p.Coefficient = decimal.NewFromInt(1)
		p.PlanID = nil
		return
	}
	if p.Installments < 1 {
		p.Installments = 1
	}
	p.SurchargeAmount = money.Percent(p.Amount, p.SurchargePct)
	p.Coefficient = money.Coefficient(p.SurchargePct)
}

// Collected is what the customer is actually charged on this tender
func (p *Payment) Collected() decimal.Decimal {
	return p.Amount.Add(p.SurchargeAmount)
}
