// Package cart holds the operator's in-progress sale: line items, payment
// drafts and the single-use confirmation token. It has no storage of its
// own; a CartStore loads and saves it between requests.
package cart

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Line is one variant in the cart at a tax-inclusive unit price
type Line struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is round2(price x qty); malformed lines count as zero
func (l Line) Subtotal() decimal.Decimal {
	if l.Quantity <= 0 || l.UnitPrice.IsNegative() {
		return decimal.Zero
	}
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// UnmarshalJSON reads a stored line field by field. A quantity or price
// that does not decode is zero, and so is the quantity of a line whose
// variant id is unreadable, so one bad line never loses the session.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw struct {
		VariantID json.RawMessage `json:"variant_id"`
		Quantity  json.RawMessage `json:"quantity"`
		UnitPrice json.RawMessage `json:"unit_price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Line{}
	if err := json.Unmarshal(raw.Quantity, &l.Quantity); err != nil {
		l.Quantity = 0
	}
	if err := json.Unmarshal(raw.UnitPrice, &l.UnitPrice); err != nil {
		l.UnitPrice = decimal.Zero
	}
	if err := json.Unmarshal(raw.VariantID, &l.VariantID); err != nil {
		l.VariantID, l.Quantity = uuid.Nil, 0
	}
	return nil
}

// Session is the cart and payment drafts of one operator session
type Session struct {
	Key          string         `json:"key"`
	OperatorID   uuid.UUID      `json:"operator_id"`
	Lines        []Line         `json:"lines"`
	Payments     []PaymentDraft `json:"payments"`
	ConfirmToken string         `json:"confirm_token"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewSession(key string, operatorID uuid.UUID) *Session {
	return &Session{
		Key:          key,
		OperatorID:   operatorID,
		ConfirmToken: uuid.NewString(),
	}
}

// RotateToken replaces the confirmation token and returns the new one
func (s *Session) RotateToken() string {
	s.ConfirmToken = uuid.NewString()
	return s.ConfirmToken
}

// Total is the sum of line subtotals
func (s *Session) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return money.Round2(total)
}

// IsEmpty reports whether no line has a positive quantity
func (s *Session) IsEmpty() bool {
	for _, l := range s.Lines {
		if l.Quantity > 0 {
			return false
		}
	}
	return true
}

// Line returns the line for a variant, or nil
func (s *Session) Line(variantID uuid.UUID) *Line {
	for i := range s.Lines {
		if s.Lines[i].VariantID == variantID {
			return &s.Lines[i]
		}
	}
	return nil
}

// Quantity is the quantity of a variant currently in the cart
func (s *Session) Quantity(variantID uuid.UUID) int {
	if l := s.Line(variantID); l != nil {
		return l.Quantity
	}
	return 0
}

// Put sets a variant's quantity, appending the line with price when new
func (s *Session) Put(variantID uuid.UUID, qty int, price decimal.Decimal) {
	if l := s.Line(variantID); l != nil {
		l.Quantity = qty
		return
	}
	s.Lines = append(s.Lines, Line{VariantID: variantID, Quantity: qty, UnitPrice: money.Round2(price)})
}

// Remove drops a variant's line and reports whether it was present
func (s *Session) Remove(variantID uuid.UUID) bool {
	for i := range s.Lines {
		if s.Lines[i].VariantID == variantID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart and its payment drafts
func (s *Session) Clear() {
	s.Lines = nil
	s.Payments = nil
}

// VariantIDs lists the variants in cart order
func (s *Session) VariantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Lines))
	for _, l := range s.Lines {
		ids = append(ids, l.VariantID)
	}
	return ids
}

// AddDraft appends a default draft and returns its index
func (s *Session) AddDraft() int {
	s.Payments = append(s.Payments, DefaultDraft())
	return len(s.Payments) - 1
}

// Draft returns the draft at idx, or nil when out of range
func (s *Session) Draft(idx int) *PaymentDraft {
	if idx < 0 || idx >= len(s.Payments) {
		return nil
	}
	return &s.Payments[idx]
}

func (s *Session) RemoveDraft(idx int) bool {
	if idx < 0 || idx >= len(s.Payments) {
		return false
	}
	s.Payments = append(s.Payments[:idx], s.Payments[idx+1:]...)
	return true
}

// EnsureDefaultDraft seeds one draft once the cart has something to pay for
func (s *Session) EnsureDefaultDraft() {
	if len(s.Payments) == 0 && s.Total().IsPositive() {
		s.AddDraft()
	}
}
