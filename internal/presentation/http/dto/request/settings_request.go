package request

import "github.com/google/uuid"

// SetFlagRequest sets a sales toggle globally or, with a branch, for that
// branch only
type SetFlagRequest struct {
	Flag     string     `json:"flag" binding:"required"`
	Value    *bool      `json:"value" binding:"required"`
	BranchID *uuid.UUID `json:"branch_id"`
}

type IssuerRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=255"`
	LegalName   *string `json:"legal_name" binding:"omitempty,max=255"`
	TaxID       *string `json:"tax_id" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	Regime      *string `json:"fiscal_regime" binding:"omitempty,max=30"`
}
