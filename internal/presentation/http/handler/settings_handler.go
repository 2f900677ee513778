package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/retailpos-api/pkg/logger"
)

// SettingsHandler handles the sales toggles and the issuer identity
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSalesFlags lists the toggles as they apply to the caller's branch
func (h *SettingsHandler) GetSalesFlags(c *gin.Context) {
	branchID := actor(c).BranchID
	flags, err := h.settingsService.ListFlags(c.Request.Context(), &branchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", flags)
}

// UpdateSalesFlag sets one toggle. Admin only.
func (h *SettingsHandler) UpdateSalesFlag(c *gin.Context) {
	var req request.SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	if err := h.settingsService.SetFlag(ctx, req.Flag, *req.Value, req.BranchID); err != nil {
		response.Error(c, err)
		return
	}
	logger.FromContext(ctx).Info("sales flag changed", "flag", req.Flag, "value", *req.Value, "branch", req.BranchID)

	flags, err := h.settingsService.ListFlags(ctx, req.BranchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings updated successfully", flags)
}

// GetIssuer returns the identity printed on tickets
func (h *SettingsHandler) GetIssuer(c *gin.Context) {
	issuer, err := h.settingsService.Issuer(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issuer retrieved successfully", issuer)
}

// UpdateIssuer changes the identity. Admin only.
func (h *SettingsHandler) UpdateIssuer(c *gin.Context) {
	var req request.IssuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	issuer, err := h.settingsService.SetIssuer(c.Request.Context(), &service.IssuerInput{
		DisplayName: req.DisplayName,
		LegalName:   req.LegalName,
		TaxID:       req.TaxID,
		Address:     req.Address,
		Regime:      req.Regime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issuer updated successfully", issuer)
}
