package enum

import "strings"

// FiscalRegime is the tax regime of the issuing business
type FiscalRegime string

const (
	FiscalRegimeRegistered FiscalRegime = "RESPONSABLE_INSCRIPTO"
	FiscalRegimeSimplified FiscalRegime = "MONOTRIBUTISTA"

	DefaultFiscalRegime = FiscalRegimeSimplified
)

// NormalizeFiscalRegime maps free-form input (and the usual abbreviations)
// onto a known regime, falling back to the default.
func NormalizeFiscalRegime(raw string) FiscalRegime {
	key := strings.ToUpper(raw)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "RI", "RESPONSABLEINSCRIPTO":
		return FiscalRegimeRegistered
	case "MONOTRIBUTO", "MONOTRIBUTISTA":
		return FiscalRegimeSimplified
	}
	return DefaultFiscalRegime
}

func (r FiscalRegime) Label() string {
	switch r {
	case FiscalRegimeRegistered:
		return "Responsable Inscripto"
	default:
		return "Monotributista"
	}
}
