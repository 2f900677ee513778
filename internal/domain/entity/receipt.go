package entity

import (
	"fmt"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TicketIssuer is the header of a ticket, taken from the sale's snapshot
type TicketIssuer struct {
	DisplayName string `json:"display_name"`
	LegalName   string `json:"legal_name,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Address     string `json:"address,omitempty"`
	Regime      string `json:"regime"`
}

type TicketLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type TicketPayment struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Ticket is the printable form of a confirmed sale. It is not stored; it
// is rebuilt from the sale every time, so reprints match the original.
type Ticket struct {
	Issuer   TicketIssuer    `json:"issuer"`
	Code     string          `json:"code"`
	Date     string          `json:"date"`
	Cashier  string          `json:"cashier,omitempty"`
	Lines    []TicketLine    `json:"lines"`
	Payments []TicketPayment `json:"payments"`

	// ShowTaxes is set for registered issuers, who itemize VAT
	ShowTaxes  bool            `json:"show_taxes"`
	Net        decimal.Decimal `json:"net"`
	VAT        decimal.Decimal `json:"vat"`
	OtherTaxes decimal.Decimal `json:"other_taxes"`

	Total     decimal.Decimal `json:"total"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Charged   decimal.Decimal `json:"charged"`
}

// NewTicket builds the ticket of a sale loaded with lines and payments
func NewTicket(sale *Sale, cashier string) *Ticket {
	regime := enum.NormalizeFiscalRegime(sale.IssuerRegime)
	t := &Ticket{
		Issuer: TicketIssuer{
			DisplayName: sale.IssuerName,
			LegalName:   sale.IssuerLegalName,
			TaxID:       sale.IssuerTaxID,
			Address:     sale.IssuerAddress,
			Regime:      regime.Label(),
		},
		Code:       sale.Code(),
		Date:       sale.SoldAt.Format("2006-01-02 15:04"),
		Cashier:    cashier,
		ShowTaxes:  regime == enum.FiscalRegimeRegistered,
		Net:        sale.FiscalNet,
		VAT:        sale.FiscalVAT,
		OtherTaxes: sale.FiscalOtherIndirect,
		Total:      sale.Total,
		Surcharge:  sale.SurchargeTotal,
		Charged:    sale.Total.Add(sale.SurchargeTotal),
	}

	for _, l := range sale.Lines {
		t.Lines = append(t.Lines, TicketLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	for i := range sale.Payments {
		p := &sale.Payments[i]
		t.Payments = append(t.Payments, TicketPayment{Label: paymentLabel(p), Amount: p.Collected()})
	}
	return t
}

func paymentLabel(p *Payment) string {
	label := string(p.Tender)
	if p.CardBrand != "" {
		label += " " + p.CardBrand
	}
	if p.Tender == enum.TenderCredit && p.Installments > 1 {
		label += fmt.Sprintf(" %dx", p.Installments)
	}
	return label
}
