package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
)

// AddItemRequest adds units of a variant to the cart
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// ScanRequest is a barcode or SKU read at the till
type ScanRequest struct {
	Code string `json:"code" binding:"required,max=100"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetPriceRequest carries the price as typed, "12,50" included
type SetPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

// PaymentPatchRequest updates a payment draft. Absent fields are left alone.
type PaymentPatchRequest struct {
	Tender       *string            `json:"tender"`
	Amount       *string            `json:"amount"`
	Reference    *string            `json:"reference"`
	CardBrand    *string            `json:"card_brand"`
	PlanID       *uuid.UUID         `json:"plan_id"`
	Installments *int               `json:"installments"`
	SurchargePct *string            `json:"surcharge_pct"`
	CustomerID   *uuid.UUID         `json:"customer_id"`
	Terminal     *cart.TerminalInfo `json:"terminal"`
}

// ConfirmRequest submits the cart under the token it was rendered with
type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}
