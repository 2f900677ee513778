package entity

import (
	"fmt"
	"net/http"

	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// Domain failures. All of them are user-correctable and leave no partial
// state behind; compare with errors.Is.
var (
	ErrStaleToken          = apperror.NewKind(http.StatusConflict, "stale_token", "This sale was already submitted or the screen is out of date. Reload and try again.")
	ErrEmptyCart           = apperror.NewKind(http.StatusBadRequest, "empty_cart", "Cart is empty")
	ErrNoPayments          = apperror.NewKind(http.StatusBadRequest, "no_payments", "No payments entered")
	ErrInvalidPayment      = apperror.NewKind(http.StatusUnprocessableEntity, "invalid_payment", "Invalid payment")
	ErrPaymentsUnbalanced  = apperror.NewKind(http.StatusUnprocessableEntity, "payments_unbalanced", "Payments do not cover the cart total")
	ErrTenderedMismatch    = apperror.NewKind(http.StatusUnprocessableEntity, "tendered_mismatch", "Amount collected does not match the amount due")
	ErrCreditAccountClosed = apperror.NewKind(http.StatusUnprocessableEntity, "credit_account_inactive", "Customer has no active credit account")
	ErrInvalidPlan         = apperror.NewKind(http.StatusUnprocessableEntity, "invalid_plan", "Installment plan is not available")
	ErrInsufficientStock   = apperror.NewKind(http.StatusConflict, "insufficient_stock", "Insufficient stock")
	ErrVariantUnavailable  = apperror.NewKind(http.StatusUnprocessableEntity, "variant_unavailable", "Item is not available for sale")
	ErrPriceChangeDisabled = apperror.NewKind(http.StatusForbidden, "price_change_disabled", "Changing the sale price is not enabled")

	ErrNoOpenRegister      = apperror.NewKind(http.StatusConflict, "no_open_register", "The register is not open for this branch")
	ErrRegisterHeldByOther = apperror.NewKind(http.StatusConflict, "register_held_by_other", "The register is open by another operator")
	ErrRegisterAlreadyOpen = apperror.NewKind(http.StatusConflict, "register_already_open", "The register is already open for this branch")

	ErrBranchNotFound   = apperror.NewKind(http.StatusNotFound, "branch_not_found", "Branch not found")
	ErrBranchInactive   = apperror.NewKind(http.StatusUnprocessableEntity, "branch_inactive", "Branch is not active")
	ErrNoBranchAssigned = apperror.NewKind(http.StatusForbidden, "no_branch_assigned", "Operator has no branch assigned")
	ErrSaleNotFound     = apperror.NewKind(http.StatusNotFound, "sale_not_found", "Sale not found")

	ErrLockTimeout = apperror.NewKind(http.StatusServiceUnavailable, "lock_timeout", "The branch is busy, try again")
)

// InsufficientStock builds the stock error carrying the shortfall
func InsufficientStock(s StockShortfall) error {
	msg := fmt.Sprintf("Insufficient stock: %d available, %d requested", s.Available, s.Requested)
	if s.SKU != "" {
		msg = fmt.Sprintf("Insufficient stock for %s: %d available, %d requested", s.SKU, s.Available, s.Requested)
	}
	return ErrInsufficientStock.WithMessage(msg).WithDetails(s)
}

// InvalidPayment decorates ErrInvalidPayment with the draft position
func InvalidPayment(index int, reason string) error {
	return ErrInvalidPayment.WithMessage(fmt.Sprintf("Payment #%d: %s", index+1, reason)).
		WithDetails([]apperror.FieldError{{Field: fmt.Sprintf("payments[%d]", index), Message: reason}})
}
