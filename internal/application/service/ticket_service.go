package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// TicketService renders confirmed sales as tickets and sends them to the
// branch's thermal printer
type TicketService struct {
	repos   *repository.Repositories
	printer printer.Printer
	width   int
}

// NewTicketService creates a new ticket service. Width is the paper width in
// characters.
func NewTicketService(repos *repository.Repositories, p printer.Printer, width int) *TicketService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &TicketService{repos: repos, printer: p, width: width}
}

// PrinterStatus reports the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *TicketService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Kind(),
	}
}

// Ticket rebuilds the ticket of one of the branch's confirmed sales
func (s *TicketService) Ticket(ctx context.Context, branchID, saleID uuid.UUID) (*entity.Ticket, error) {
	sale, err := s.repos.Sales.GetWithDetails(repository.WithBranch(ctx, branchID), saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.Number == nil {
		return nil, entity.ErrSaleNotFound
	}

	cashier := ""
	operator, err := s.repos.Operators.GetByID(ctx, sale.OperatorID)
	if err != nil {
		return nil, err
	}
	if operator != nil {
		cashier = operator.DisplayName
		if cashier == "" {
			cashier = operator.Username
		}
	}
	return entity.NewTicket(sale, cashier), nil
}

// Text renders the ticket as plain text for screens and reprints
func (s *TicketService) Text(ctx context.Context, branchID, saleID uuid.UUID) (string, error) {
	ticket, err := s.Ticket(ctx, branchID, saleID)
	if err != nil {
		return "", err
	}
	return FormatTicket(ticket, printer.NewPlainDocument(s.width)).String(), nil
}

// Print sends the ticket to the printer. The ticket is returned even when
// printing fails so the caller can still show it.
func (s *TicketService) Print(ctx context.Context, branchID, saleID uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.Ticket(ctx, branchID, saleID)
	if err != nil {
		return nil, err
	}

	data := FormatTicket(ticket, printer.NewDocument(s.width)).Bytes()
	if err := s.printer.Print(ctx, data); err != nil {
		logger.FromContext(ctx).Warn("ticket print failed", "sale_id", saleID, "printer", s.printer.Kind(), "error", err)
		return ticket, fmt.Errorf("failed to print ticket: %w", err)
	}
	return ticket, nil
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatTicket lays the ticket out on doc and returns it
func FormatTicket(t *entity.Ticket, doc *printer.Document) *printer.Document {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(t.Issuer.DisplayName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if t.Issuer.LegalName != "" {
		doc.Text(t.Issuer.LegalName)
	}
	if t.Issuer.TaxID != "" {
		doc.TextF("CUIT %s", t.Issuer.TaxID)
	}
	if t.Issuer.Address != "" {
		doc.Text(t.Issuer.Address)
	}
	doc.Text(t.Issuer.Regime)

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Ticket:", t.Code).
		KeyValue("Date:", t.Date)
	if t.Cashier != "" {
		doc.KeyValue("Cashier:", t.Cashier)
	}
	doc.Separator('-')

	for _, l := range t.Lines {
		doc.ItemLine(l.Quantity, l.Description, amount(l.Subtotal))
		if l.Quantity > 1 {
			doc.TextF("  @ %s each", amount(l.UnitPrice))
		}
	}
	doc.Separator('-')

	if t.ShowTaxes {
		doc.KeyValue("Net:", amount(t.Net)).
			KeyValue("VAT:", amount(t.VAT))
		if !t.OtherTaxes.IsZero() {
			doc.KeyValue("Other taxes:", amount(t.OtherTaxes))
		}
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", amount(t.Total)).
		SetBold(false)
	if t.Surcharge.IsPositive() {
		doc.KeyValue("Card surcharge:", amount(t.Surcharge)).
			KeyValue("Charged:", amount(t.Charged))
	}

	doc.Separator('-')
	for _, p := range t.Payments {
		doc.KeyValue(p.Label, amount(p.Amount))
	}

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you for your purchase!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()
	return doc
}
