package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// PosHandler serves the till: cart, payment drafts and confirmation
type PosHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

// NewPosHandler creates a new POS handler
func NewPosHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *PosHandler {
	return &PosHandler{cartService: cartService, checkoutService: checkoutService}
}

func (h *PosHandler) cart(c *gin.Context, message string, view *service.CartView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, view)
}

// StartSession issues a fresh confirmation token for the caller's cart
func (h *PosHandler) StartSession(c *gin.Context) {
	view, err := h.cartService.Start(c.Request.Context(), actor(c))
	h.cart(c, "Session started", view, err)
}

// GetCart returns the cart with its reconciliation
func (h *PosHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.View(c.Request.Context(), actor(c))
	h.cart(c, "Cart retrieved successfully", view, err)
}

// Scan adds an exact SKU or barcode match, or lists candidates
func (h *PosHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.Scan(c.Request.Context(), actor(c), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Scan processed", result)
}

// SearchVariants finds sellable variants with the branch's stock
func (h *PosHandler) SearchVariants(c *gin.Context) {
	matches, err := h.cartService.Search(c.Request.Context(), actor(c).BranchID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Variants retrieved successfully", matches)
}

// AddItem adds units of a variant
func (h *PosHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.Add(c.Request.Context(), actor(c), req.VariantID, req.Quantity)
	h.cart(c, "Item added", view, err)
}

// SetQuantity sets a line's quantity
func (h *PosHandler) SetQuantity(c *gin.Context) {
	variantID, err := uuidParam(c, "variantID")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetQuantity(c.Request.Context(), actor(c), variantID, req.Quantity)
	h.cart(c, "Quantity updated", view, err)
}

// SetPrice overrides a line's unit price
func (h *PosHandler) SetPrice(c *gin.Context) {
	variantID, err := uuidParam(c, "variantID")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetPrice(c.Request.Context(), actor(c), variantID, req.Price)
	h.cart(c, "Price updated", view, err)
}

// RemoveItem drops a line
func (h *PosHandler) RemoveItem(c *gin.Context) {
	variantID, err := uuidParam(c, "variantID")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.cartService.Remove(c.Request.Context(), actor(c), variantID)
	h.cart(c, "Item removed", view, err)
}

// ClearCart empties the cart and its payments
func (h *PosHandler) ClearCart(c *gin.Context) {
	view, err := h.cartService.Clear(c.Request.Context(), actor(c))
	h.cart(c, "Cart cleared", view, err)
}

// AddPayment appends an empty cash draft
func (h *PosHandler) AddPayment(c *gin.Context) {
	view, err := h.cartService.AddDraft(c.Request.Context(), actor(c))
	h.cart(c, "Payment added", view, err)
}

// UpdatePayment patches the draft at :index
func (h *PosHandler) UpdatePayment(c *gin.Context) {
	idx, err := intParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.PaymentPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetDraft(c.Request.Context(), actor(c), idx, &service.DraftPatch{
		Tender:       req.Tender,
		Amount:       req.Amount,
		Reference:    req.Reference,
		CardBrand:    req.CardBrand,
		PlanID:       req.PlanID,
		Installments: req.Installments,
		SurchargePct: req.SurchargePct,
		CustomerID:   req.CustomerID,
		Terminal:     req.Terminal,
	})
	h.cart(c, "Payment updated", view, err)
}

// RemovePayment deletes the draft at :index
func (h *PosHandler) RemovePayment(c *gin.Context) {
	idx, err := intParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.cartService.RemoveDraft(c.Request.Context(), actor(c), idx)
	h.cart(c, "Payment removed", view, err)
}

// Installments lists the active plans for ?brand=
func (h *PosHandler) Installments(c *gin.Context) {
	options, err := h.cartService.InstallmentOptions(c.Request.Context(), c.Query("brand"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Installment plans retrieved successfully", options)
}

// Stock is the non-locking on-hand quantity at the caller's branch
func (h *PosHandler) Stock(c *gin.Context) {
	variantID, err := uuidParam(c, "variantID")
	if err != nil {
		response.Error(c, err)
		return
	}

	available, err := h.cartService.StockAvailable(c.Request.Context(), actor(c).BranchID, variantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock retrieved successfully", gin.H{"variant_id": variantID, "available": available})
}

// Confirm turns the cart into a confirmed sale
// @Summary Confirm sale
// @Tags pos
// @Accept json
// @Produce json
// @Param request body request.ConfirmRequest true "Confirmation token"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /pos/confirm [post]
func (h *PosHandler) Confirm(c *gin.Context) {
	var req request.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.checkoutService.Confirm(c.Request.Context(), actor(c), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale "+sale.Code()+" confirmed", service.SaleSummary{Sale: *sale, Code: sale.Code()})
}
