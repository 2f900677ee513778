package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/pkg/printer"
)

type recordingPrinter struct {
	data []byte
	err  error
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.data = append([]byte(nil), data...)
	return nil
}

func (p *recordingPrinter) Kind() string                         { return "network" }
func (p *recordingPrinter) IsConnected(ctx context.Context) bool { return p.err == nil }

func (f *fixture) confirmedSale(t *testing.T, regime string) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	item := f.variant(t, "A", "10", 5)
	if _, err := f.settings.SetIssuer(ctx, &IssuerInput{DisplayName: strPtr("Tienda Sur"), Regime: strPtr(regime)}); err != nil {
		t.Fatalf("set issuer: %v", err)
	}
	f.open(t, f.cashier)
	f.readyCart(t, f.cashier, item, 2)
	view, err := f.cart.SetDraft(ctx, f.cashier, 0, &DraftPatch{Amount: strPtr("20")})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	sale, err := f.checkout.Confirm(ctx, f.cashier, view.ConfirmToken)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return sale
}

func TestTicketText(t *testing.T) {
	tests := []struct {
		regime    string
		showTaxes bool
	}{
		{regime: "RI", showTaxes: true},
		{regime: "monotributo", showTaxes: false},
	}
	for _, tt := range tests {
		t.Run(tt.regime, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			sale := f.confirmedSale(t, tt.regime)
			tickets := NewTicketService(f.repos, nil, 32)

			ticket, err := tickets.Ticket(ctx, f.branch.ID, sale.ID)
			if err != nil {
				t.Fatalf("ticket: %v", err)
			}
			if ticket.ShowTaxes != tt.showTaxes || ticket.Code != "V00000000001" {
				t.Errorf("ticket = %+v", ticket)
			}

			text, err := tickets.Text(ctx, f.branch.ID, sale.ID)
			if err != nil {
				t.Fatalf("text: %v", err)
			}
			for _, want := range []string{"Tienda Sur", "2x Remera A", "@ 10.00 each", "TOTAL:", "20.00", "CASH"} {
				if !strings.Contains(text, want) {
					t.Errorf("ticket missing %q:\n%s", want, text)
				}
			}
			if strings.Contains(text, "VAT:") != tt.showTaxes {
				t.Errorf("VAT line shown = %t, want %t", strings.Contains(text, "VAT:"), tt.showTaxes)
			}
		})
	}
}

func TestTicketPrint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.confirmedSale(t, "RI")

	p := &recordingPrinter{}
	if _, err := NewTicketService(f.repos, p, 48).Print(ctx, f.branch.ID, sale.ID); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !bytes.HasPrefix(p.data, []byte{printer.ESC, '@'}) || !bytes.Contains(p.data, []byte("TOTAL:")) {
		t.Errorf("printed data = %q", p.data)
	}

	broken := &recordingPrinter{err: errors.New("paper out")}
	ticket, err := NewTicketService(f.repos, broken, 48).Print(ctx, f.branch.ID, sale.ID)
	if err == nil || ticket == nil {
		t.Errorf("print on a broken printer = %v, %v; want the ticket and an error", ticket, err)
	}
}

func TestTicketScopedToBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.confirmedSale(t, "RI")
	tickets := NewTicketService(f.repos, nil, 32)

	if _, err := tickets.Ticket(ctx, uuid.New(), sale.ID); !errors.Is(err, entity.ErrSaleNotFound) {
		t.Errorf("other branch: err = %v, want ErrSaleNotFound", err)
	}
	if _, err := tickets.Ticket(ctx, f.branch.ID, uuid.New()); !errors.Is(err, entity.ErrSaleNotFound) {
		t.Errorf("unknown sale: err = %v, want ErrSaleNotFound", err)
	}
	if status := tickets.Status(ctx); status.Configured || status.Type != "none" {
		t.Errorf("status = %+v", status)
	}
}
