package enum

import (
	"encoding/json"
	"testing"
)

func TestNormalizeFiscalRegime(t *testing.T) {
	tests := []struct {
		in   string
		want FiscalRegime
	}{
		{"RI", FiscalRegimeRegistered},
		{"responsable inscripto", FiscalRegimeRegistered},
		{"RESPONSABLE_INSCRIPTO", FiscalRegimeRegistered},
		{"monotributo", FiscalRegimeSimplified},
		{"Monotributista", FiscalRegimeSimplified},
		{"", DefaultFiscalRegime},
		{"exento", DefaultFiscalRegime},
	}
	for _, tt := range tests {
		if got := NormalizeFiscalRegime(tt.in); got != tt.want {
			t.Errorf("NormalizeFiscalRegime(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseTenderType(t *testing.T) {
	if got, ok := ParseTenderType(" credit "); !ok || got != TenderCredit {
		t.Errorf("ParseTenderType(credit) = %s, %v", got, ok)
	}
	if _, ok := ParseTenderType(""); ok {
		t.Error("empty tender must be invalid")
	}
	if _, ok := ParseTenderType("CHEQUE"); ok {
		t.Error("unknown tender must be invalid")
	}
}

func TestSaleStatusJSON(t *testing.T) {
	b, err := json.Marshal(SaleStatusConfirmed)
	if err != nil || string(b) != `"CONFIRMED"` {
		t.Fatalf("Marshal = %s, %v", b, err)
	}
	var s SaleStatus
	if err := json.Unmarshal([]byte(`"VOID"`), &s); err != nil || s != SaleStatusVoid {
		t.Errorf("Unmarshal = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"PAID"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}
