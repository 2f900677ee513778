package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/sanitize"
)

// Sales toggles
const (
	FlagAllowSellBelowStock = "allow_sell_below_stock"
	FlagAllowPriceChange    = "allow_price_change"
)

var salesFlags = []string{FlagAllowSellBelowStock, FlagAllowPriceChange}

var flagDescriptions = map[string]string{
	FlagAllowSellBelowStock: "Allow selling more than the stock on hand",
	FlagAllowPriceChange:    "Allow changing the sale price at the register",
}

// Issuer settings keys
const (
	KeyIssuerDisplayName  = "issuer.display_name"
	KeyIssuerLegalName    = "issuer.legal_name"
	KeyIssuerTaxID        = "issuer.tax_id"
	KeyIssuerAddress      = "issuer.address"
	KeyIssuerFiscalRegime = "issuer.fiscal_regime"
)

const (
	SourceGlobal = "global"
	SourceBranch = "branch"
)

func globalFlagKey(flag string) string {
	return "sales." + flag
}

func branchFlagKey(branchID uuid.UUID, flag string) string {
	return fmt.Sprintf("sales.branch.%s.%s", branchID, flag)
}

// SalesFlags is the effective value of both toggles for one branch
type SalesFlags struct {
	AllowSellBelowStock bool `json:"allow_sell_below_stock"`
	AllowPriceChange    bool `json:"allow_price_change"`
}

// FlagValue is one toggle with where its effective value came from
type FlagValue struct {
	Flag        string `json:"flag"`
	Description string `json:"description"`
	Value       bool   `json:"value"`
	Source      string `json:"source"`
}

// Issuer is the identity printed on tickets
type Issuer struct {
	DisplayName string            `json:"display_name"`
	LegalName   string            `json:"legal_name"`
	TaxID       string            `json:"tax_id"`
	Address     string            `json:"address"`
	Regime      enum.FiscalRegime `json:"fiscal_regime"`
	RegimeLabel string            `json:"fiscal_regime_label"`
}

// SettingsService reads and writes the branch-scoped toggles and the issuer
// identity
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetBool resolves a toggle: a branch override wins over the global value,
// and a missing global value is created as false.
func (s *SettingsService) GetBool(ctx context.Context, flag string, branchID *uuid.UUID) (bool, string, error) {
	if branchID != nil {
		override, err := s.settingsRepo.GetByKey(ctx, branchFlagKey(*branchID, flag))
		if err != nil {
			return false, "", err
		}
		if override != nil && override.BoolValue != nil {
			return *override.BoolValue, SourceBranch, nil
		}
	}

	off := false
	global, err := s.settingsRepo.GetOrCreate(ctx, &entity.AppSetting{
		Key:         globalFlagKey(flag),
		BoolValue:   &off,
		Description: flagDescriptions[flag],
	})
	if err != nil {
		return false, "", err
	}
	if global.BoolValue == nil {
		return false, SourceGlobal, nil
	}
	return *global.BoolValue, SourceGlobal, nil
}

// SalesFlags reads both toggles for a branch
func (s *SettingsService) SalesFlags(ctx context.Context, branchID uuid.UUID) (SalesFlags, error) {
	var flags SalesFlags
	var err error
	if flags.AllowSellBelowStock, _, err = s.GetBool(ctx, FlagAllowSellBelowStock, &branchID); err != nil {
		return flags, err
	}
	if flags.AllowPriceChange, _, err = s.GetBool(ctx, FlagAllowPriceChange, &branchID); err != nil {
		return flags, err
	}
	return flags, nil
}

// ListFlags lists every toggle with its effective value for the branch
func (s *SettingsService) ListFlags(ctx context.Context, branchID *uuid.UUID) ([]FlagValue, error) {
	out := make([]FlagValue, 0, len(salesFlags))
	for _, flag := range salesFlags {
		value, source, err := s.GetBool(ctx, flag, branchID)
		if err != nil {
			return nil, err
		}
		out = append(out, FlagValue{Flag: flag, Description: flagDescriptions[flag], Value: value, Source: source})
	}
	return out, nil
}

// SetFlag writes a toggle globally, or for one branch when branchID is set
func (s *SettingsService) SetFlag(ctx context.Context, flag string, value bool, branchID *uuid.UUID) error {
	if _, ok := flagDescriptions[flag]; !ok {
		return apperror.NewBadRequestError("Unknown flag: " + flag)
	}
	key := globalFlagKey(flag)
	if branchID != nil {
		key = branchFlagKey(*branchID, flag)
	}
	return s.settingsRepo.Upsert(ctx, &entity.AppSetting{
		Key:         key,
		BoolValue:   &value,
		Description: flagDescriptions[flag],
	})
}

// Issuer returns the current issuer identity. Unset fields are empty and
// the regime falls back to the default.
func (s *SettingsService) Issuer(ctx context.Context) (Issuer, error) {
	read := func(key string) (string, error) {
		row, err := s.settingsRepo.GetByKey(ctx, key)
		if err != nil || row == nil || row.StrValue == nil {
			return "", err
		}
		return *row.StrValue, nil
	}

	var issuer Issuer
	var regime string
	fields := []struct {
		key string
		dst *string
	}{
		{KeyIssuerDisplayName, &issuer.DisplayName},
		{KeyIssuerLegalName, &issuer.LegalName},
		{KeyIssuerTaxID, &issuer.TaxID},
		{KeyIssuerAddress, &issuer.Address},
		{KeyIssuerFiscalRegime, &regime},
	}
	for _, f := range fields {
		v, err := read(f.key)
		if err != nil {
			return Issuer{}, err
		}
		*f.dst = v
	}

	issuer.Regime = enum.NormalizeFiscalRegime(regime)
	issuer.RegimeLabel = issuer.Regime.Label()
	return issuer, nil
}

// IssuerInput carries the fields to change; nil fields are left alone
type IssuerInput struct {
	DisplayName *string
	LegalName   *string
	TaxID       *string
	Address     *string
	Regime      *string
}

// SetIssuer updates the issuer identity. The regime is stored normalized.
func (s *SettingsService) SetIssuer(ctx context.Context, input *IssuerInput) (Issuer, error) {
	write := func(key string, value *string, max int) error {
		if value == nil {
			return nil
		}
		v := sanitize.Text(*value, max)
		return s.settingsRepo.Upsert(ctx, &entity.AppSetting{Key: key, StrValue: &v})
	}

	if err := write(KeyIssuerDisplayName, input.DisplayName, 255); err != nil {
		return Issuer{}, err
	}
	if err := write(KeyIssuerLegalName, input.LegalName, 255); err != nil {
		return Issuer{}, err
	}
	if err := write(KeyIssuerTaxID, input.TaxID, 20); err != nil {
		return Issuer{}, err
	}
	if err := write(KeyIssuerAddress, input.Address, 255); err != nil {
		return Issuer{}, err
	}
	if input.Regime != nil {
		regime := string(enum.NormalizeFiscalRegime(*input.Regime))
		if err := write(KeyIssuerFiscalRegime, &regime, 30); err != nil {
			return Issuer{}, err
		}
	}
	return s.Issuer(ctx)
}
