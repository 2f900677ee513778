// Package money holds the fixed-point helpers used for every monetary value:
// half-up rounding to cents and the split of a tax-inclusive amount into its
// net and VAT parts.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// StandardVATRate is the VAT percentage applied when a line carries none.
var StandardVATRate = decimal.NewFromInt(21)

var (
	ErrNegativeAmount = errors.New("money: amount must not be negative")
	ErrNegativeRate   = errors.New("money: rate must not be negative")
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two fractional digits, half away from zero.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// Breakdown is the decomposition of a tax-inclusive amount.
type Breakdown struct {
	Net           decimal.Decimal `json:"net"`
	VAT           decimal.Decimal `json:"vat"`
	OtherIndirect decimal.Decimal `json:"other_indirect"`
}

// Total returns net + vat + other indirect taxes.
func (b Breakdown) Total() decimal.Decimal {
	return b.Net.Add(b.VAT).Add(b.OtherIndirect)
}

// Decompose splits a tax-inclusive amount at the given VAT percentage.
// VAT is taken as the remainder so the parts always add up to the rounded
// amount.
func Decompose(final, ratePct decimal.Decimal) (Breakdown, error) {
	final = Round2(final)
	if final.IsNegative() {
		return Breakdown{}, ErrNegativeAmount
	}
	if ratePct.IsNegative() {
		return Breakdown{}, ErrNegativeRate
	}
	if final.IsZero() || ratePct.IsZero() {
		return Breakdown{Net: final, VAT: decimal.Zero, OtherIndirect: decimal.Zero}, nil
	}

	divisor := decimal.NewFromInt(1).Add(ratePct.Div(hundred))
	net := Round2(final.DivRound(divisor, 8))
	return Breakdown{
		Net:           net,
		VAT:           Round2(final.Sub(net)),
		OtherIndirect: decimal.Zero,
	}, nil
}

// Sum adds decompositions component-wise.
func Sum(parts ...Breakdown) Breakdown {
	out := Breakdown{Net: decimal.Zero, VAT: decimal.Zero, OtherIndirect: decimal.Zero}
	for _, p := range parts {
		out.Net = out.Net.Add(Round2(p.Net))
		out.VAT = out.VAT.Add(Round2(p.VAT))
		out.OtherIndirect = out.OtherIndirect.Add(Round2(p.OtherIndirect))
	}
	return out
}

// Percent returns round2(amount * pct / 100).
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(pct).Div(hundred))
}

// Coefficient returns 1 + pct/100 rounded to four places.
func Coefficient(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(pct.Div(hundred)).Round(4)
}

// Parse reads a user-entered amount, accepting a decimal comma.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(normalize(s))
}

func normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t', '$':
		case ',':
			out = append(out, '.')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
