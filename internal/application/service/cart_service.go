package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/metrics"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/sangkips/retailpos-api/pkg/sanitize"
	"github.com/shopspring/decimal"
)

const scanMatchLimit = 20

// CartService mutates the operator's cart and payment drafts. Every change
// is gated by the register check; reads are not.
type CartService struct {
	repos    *repository.Repositories
	carts    repository.CartStore
	register *RegisterService
	settings *SettingsService
}

// NewCartService creates a new cart service
func NewCartService(
	repos *repository.Repositories,
	carts repository.CartStore,
	register *RegisterService,
	settings *SettingsService,
) *CartService {
	return &CartService{
		repos:    repos,
		carts:    carts,
		register: register,
		settings: settings,
	}
}

// CartLineView is one cart line with catalog data for display
type CartLineView struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Available   int             `json:"available"`
}

// DraftView is a payment draft with its computed figures
type DraftView struct {
	cart.PaymentDraft
	Figures cart.DraftFigures `json:"figures"`
}

// CartView is what every cart operation returns
type CartView struct {
	SessionKey     string              `json:"session_key"`
	ConfirmToken   string              `json:"confirm_token"`
	Lines          []CartLineView      `json:"lines"`
	Total          decimal.Decimal     `json:"total"`
	Payments       []DraftView         `json:"payments"`
	Reconciliation cart.Reconciliation `json:"reconciliation"`
	Settled        bool                `json:"settled"`
	Flags          SalesFlags          `json:"flags"`
	Notice         string              `json:"notice,omitempty"`
}

// VariantMatch is a search hit with the branch's stock
type VariantMatch struct {
	entity.Variant
	Available int `json:"available"`
}

// ScanResult is either an updated cart (exact match) or a list of candidates
type ScanResult struct {
	Added   bool           `json:"added"`
	Cart    *CartView      `json:"cart,omitempty"`
	Matches []VariantMatch `json:"matches,omitempty"`
}

// InstallmentOptions lists a brand's active plans and every brand that has one
type InstallmentOptions struct {
	Brand  string                   `json:"brand,omitempty"`
	Plans  []entity.InstallmentPlan `json:"plans"`
	Brands []string                 `json:"brands"`
}

// DraftPatch holds the draft fields to change; nil fields are left alone.
// Amount and SurchargePct are operator text and parsed leniently.
type DraftPatch struct {
	Tender       *string
	Amount       *string
	Reference    *string
	CardBrand    *string
	PlanID       *uuid.UUID
	Installments *int
	SurchargePct *string
	CustomerID   *uuid.UUID
	Terminal     *cart.TerminalInfo
}

func (s *CartService) load(ctx context.Context, actor Actor) (*cart.Session, error) {
	session, err := s.carts.Load(ctx, actor.SessionKey)
	if err != nil {
		return nil, err
	}
	if session == nil || session.OperatorID != actor.OperatorID {
		session = cart.NewSession(actor.SessionKey, actor.OperatorID)
	}
	return session, nil
}

// mutate loads the cart, checks the register, applies fn and saves
func (s *CartService) mutate(ctx context.Context, actor Actor, fn func(session *cart.Session, flags SalesFlags) (string, error)) (*CartView, error) {
	if _, err := s.register.Authorize(ctx, actor.BranchID, actor.OperatorID); err != nil {
		return nil, err
	}
	session, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	flags, err := s.settings.SalesFlags(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}

	notice, err := fn(session, flags)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, actor, session, flags, notice)
}

func (s *CartService) finish(ctx context.Context, actor Actor, session *cart.Session, flags SalesFlags, notice string) (*CartView, error) {
	session.EnsureDefaultDraft()
	if err := s.carts.Save(ctx, session); err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, actor.BranchID, session)
	if err != nil {
		return nil, err
	}
	view.Flags = flags
	view.Notice = notice
	return view, nil
}

func (s *CartService) buildView(ctx context.Context, branchID uuid.UUID, session *cart.Session) (*CartView, error) {
	ids := session.VariantIDs()
	variants, err := s.repos.Catalog.GetVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Variant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}
	stock, err := s.repos.Stock.AvailableMany(ctx, branchID, ids)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		SessionKey:   session.Key,
		ConfirmToken: session.ConfirmToken,
		Lines:        make([]CartLineView, 0, len(session.Lines)),
		Total:        session.Total(),
		Payments:     make([]DraftView, 0, len(session.Payments)),
	}
	for _, l := range session.Lines {
		lv := CartLineView{
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
			Available: stock[l.VariantID],
		}
		if v, ok := byID[l.VariantID]; ok {
			lv.SKU, lv.Description = v.SKU, v.Label()
		}
		view.Lines = append(view.Lines, lv)
	}

	view.Reconciliation = cart.Reconcile(session.Payments, view.Total)
	view.Settled = view.Reconciliation.Settled()
	for i, d := range session.Payments {
		view.Payments = append(view.Payments, DraftView{PaymentDraft: d, Figures: view.Reconciliation.Drafts[i]})
	}
	return view, nil
}

// Start begins a terminal session, issuing a fresh confirmation token
func (s *CartService) Start(ctx context.Context, actor Actor) (*CartView, error) {
	session, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	session.RotateToken()
	flags, err := s.settings.SalesFlags(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, actor, session, flags, "")
}

// View returns the current cart without storing anything. A terminal with
// no cart of its own sees an empty one with no confirmation token.
func (s *CartService) View(ctx context.Context, actor Actor) (*CartView, error) {
	session, err := s.carts.Load(ctx, actor.SessionKey)
	if err != nil {
		return nil, err
	}
	if session == nil || session.OperatorID != actor.OperatorID {
		session = &cart.Session{Key: actor.SessionKey, OperatorID: actor.OperatorID}
	}
	flags, err := s.settings.SalesFlags(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, actor.BranchID, session)
	if err != nil {
		return nil, err
	}
	view.Flags = flags
	return view, nil
}

func (s *CartService) sellable(ctx context.Context, variantID uuid.UUID) (*entity.Variant, error) {
	variant, err := s.repos.Catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || !variant.Active {
		return nil, entity.ErrVariantUnavailable
	}
	return variant, nil
}

// Add puts delta more units of a variant in the cart
func (s *CartService) Add(ctx context.Context, actor Actor, variantID uuid.UUID, delta int) (*CartView, error) {
	if delta < 1 {
		delta = 1
	}
	return s.mutate(ctx, actor, func(session *cart.Session, flags SalesFlags) (string, error) {
		variant, err := s.sellable(ctx, variantID)
		if err != nil {
			return "", err
		}
		want := session.Quantity(variantID) + delta

		if !flags.AllowSellBelowStock {
			available, err := s.repos.Stock.Available(ctx, actor.BranchID, variantID)
			if err != nil {
				return "", err
			}
			if want > available {
				metrics.StockShortfalls.Inc()
				return "", entity.InsufficientStock(entity.StockShortfall{
					VariantID: variantID,
					SKU:       variant.SKU,
					Available: available,
					Requested: want,
				})
			}
		}

		session.Put(variantID, want, variant.Price)
		return "", nil
	})
}

// Scan adds one unit on an exact SKU or barcode match, otherwise returns
// the closest candidates
func (s *CartService) Scan(ctx context.Context, actor Actor, code string) (*ScanResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Code is required")
	}

	exact, err := s.repos.Catalog.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(exact) == 1 {
		view, err := s.Add(ctx, actor, exact[0].ID, 1)
		if err != nil {
			return nil, err
		}
		return &ScanResult{Added: true, Cart: view}, nil
	}

	matches, err := s.Search(ctx, actor.BranchID, code)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Matches: matches}, nil
}

// Search finds active variants with their stock at the branch
func (s *CartService) Search(ctx context.Context, branchID uuid.UUID, query string) ([]VariantMatch, error) {
	variants, err := s.repos.Catalog.Search(ctx, strings.TrimSpace(query), scanMatchLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(variants))
	for i := range variants {
		ids[i] = variants[i].ID
	}
	stock, err := s.repos.Stock.AvailableMany(ctx, branchID, ids)
	if err != nil {
		return nil, err
	}

	matches := make([]VariantMatch, len(variants))
	for i := range variants {
		matches[i] = VariantMatch{Variant: variants[i], Available: stock[variants[i].ID]}
	}
	return matches, nil
}

// SetQuantity sets a line's quantity. Without the stock bypass the
// quantity is clamped to what is on hand, and the line is dropped when
// nothing is.
func (s *CartService) SetQuantity(ctx context.Context, actor Actor, variantID uuid.UUID, qty int) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, flags SalesFlags) (string, error) {
		line := session.Line(variantID)
		if line == nil {
			return "", apperror.NewNotFoundError("Cart item")
		}
		if qty < 1 {
			qty = 1
		}
		if flags.AllowSellBelowStock {
			line.Quantity = qty
			return "", nil
		}

		available, err := s.repos.Stock.Available(ctx, actor.BranchID, variantID)
		if err != nil {
			return "", err
		}
		switch {
		case available <= 0:
			session.Remove(variantID)
			metrics.StockShortfalls.Inc()
			return "Item removed: no stock available", nil
		case qty > available:
			line.Quantity = available
			metrics.StockShortfalls.Inc()
			return fmt.Sprintf("Quantity limited to %d (stock available)", available), nil
		}
		line.Quantity = qty
		return "", nil
	})
}

// SetPrice overrides a line's unit price when price changes are enabled.
// A price that is not positive leaves the line untouched.
func (s *CartService) SetPrice(ctx context.Context, actor Actor, variantID uuid.UUID, raw string) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, flags SalesFlags) (string, error) {
		if !flags.AllowPriceChange {
			return "", entity.ErrPriceChangeDisabled
		}
		line := session.Line(variantID)
		if line == nil {
			return "", apperror.NewNotFoundError("Cart item")
		}
		price, err := money.Parse(raw)
		if err != nil || !price.IsPositive() {
			return "Price must be greater than zero; previous price kept", nil
		}
		line.UnitPrice = money.Round2(price)
		return "", nil
	})
}

// Remove drops a line from the cart
func (s *CartService) Remove(ctx context.Context, actor Actor, variantID uuid.UUID) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, _ SalesFlags) (string, error) {
		if !session.Remove(variantID) {
			return "", apperror.NewNotFoundError("Cart item")
		}
		return "", nil
	})
}

// Clear empties the cart and discards every payment draft
func (s *CartService) Clear(ctx context.Context, actor Actor) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, _ SalesFlags) (string, error) {
		session.Clear()
		return "", nil
	})
}

// AddDraft appends a CASH draft with a zero amount
func (s *CartService) AddDraft(ctx context.Context, actor Actor) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, _ SalesFlags) (string, error) {
		session.AddDraft()
		return "", nil
	})
}

// RemoveDraft deletes the draft at idx
func (s *CartService) RemoveDraft(ctx context.Context, actor Actor, idx int) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, _ SalesFlags) (string, error) {
		if !session.RemoveDraft(idx) {
			return "", apperror.NewNotFoundError("Payment")
		}
		return "", nil
	})
}

// SetDraft applies a patch to the draft at idx. The tender is applied
// first so fields belonging to the previous tender are cleared before the
// new ones are set.
func (s *CartService) SetDraft(ctx context.Context, actor Actor, idx int, patch *DraftPatch) (*CartView, error) {
	return s.mutate(ctx, actor, func(session *cart.Session, _ SalesFlags) (string, error) {
		draft := session.Draft(idx)
		if draft == nil {
			return "", apperror.NewNotFoundError("Payment")
		}
		return "", s.applyPatch(ctx, idx, draft, patch)
	})
}

func (s *CartService) applyPatch(ctx context.Context, idx int, draft *cart.PaymentDraft, patch *DraftPatch) error {
	if patch.Tender != nil {
		tender, ok := enum.ParseTenderType(*patch.Tender)
		if !ok {
			return entity.InvalidPayment(idx, "unknown tender type "+*patch.Tender)
		}
		draft.SetTender(tender)
	}

	if patch.Amount != nil {
		amount, err := money.Parse(*patch.Amount)
		if err != nil {
			return entity.InvalidPayment(idx, "amount is not a number")
		}
		// negative amounts are kept so the operator sees them; confirm rejects them
		draft.Amount = money.Round2(amount)
	}

	if draft.Tender == enum.TenderCredit {
		if err := s.applyCreditTerms(ctx, idx, draft, patch); err != nil {
			return err
		}
	}

	if patch.CustomerID != nil {
		customer, err := s.repos.Credit.GetCustomer(ctx, *patch.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		draft.SetCustomer(customer)
	}

	if patch.Reference != nil && draft.Tender != enum.TenderStoreCredit {
		draft.Reference = sanitize.Text(*patch.Reference, 120)
	}

	if patch.Terminal != nil {
		t := patch.Terminal
		draft.Terminal = cart.TerminalInfo{
			Provider:   sanitize.Text(t.Provider, 30),
			TerminalID: sanitize.Text(t.TerminalID, 50),
			Batch:      sanitize.Text(t.Batch, 30),
			Voucher:    sanitize.Text(t.Voucher, 30),
			AuthCode:   sanitize.Text(t.AuthCode, 30),
			CardBrand:  sanitize.Text(t.CardBrand, 30),
			Last4:      sanitize.Last4(t.Last4),
		}
	}
	return nil
}

// applyCreditTerms resolves plan, brand, installments and surcharge in
// that order. A linked plan is the source of truth for its terms.
func (s *CartService) applyCreditTerms(ctx context.Context, idx int, draft *cart.PaymentDraft, patch *DraftPatch) error {
	switch {
	case patch.PlanID != nil:
		plan, err := s.repos.Plans.FindByID(ctx, *patch.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return entity.ErrInvalidPlan
		}
		draft.UsePlan(plan)

	case patch.CardBrand != nil:
		brand := sanitize.Text(*patch.CardBrand, 50)
		plan, err := s.repos.Plans.FindDefault(ctx, brand)
		if err != nil {
			return err
		}
		if plan != nil {
			draft.UsePlan(plan)
		} else {
			draft.UseBrandWithoutPlan(brand)
		}
	}

	if patch.Installments != nil {
		n := *patch.Installments
		var plan *entity.InstallmentPlan
		if draft.Credit != nil && draft.Credit.CardBrand != "" {
			var err error
			if plan, err = s.repos.Plans.FindByInstallments(ctx, draft.Credit.CardBrand, n); err != nil {
				return err
			}
		}
		if plan != nil {
			draft.UsePlan(plan)
		} else {
			draft.SetManualTerms(&n, nil)
		}
	}

	if patch.SurchargePct != nil {
		pct, err := money.Parse(*patch.SurchargePct)
		if err != nil {
			return entity.InvalidPayment(idx, "surcharge is not a number")
		}
		draft.SetManualTerms(nil, &pct)
	}
	return nil
}

// InstallmentOptions lists the active plans for a brand
func (s *CartService) InstallmentOptions(ctx context.Context, brand string) (*InstallmentOptions, error) {
	brands, err := s.repos.Plans.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	out := &InstallmentOptions{Brand: brand, Plans: []entity.InstallmentPlan{}, Brands: brands}
	if brand == "" {
		return out, nil
	}
	plans, err := s.repos.Plans.ListByBrand(ctx, brand)
	if err != nil {
		return nil, err
	}
	if plans != nil {
		out.Plans = plans
	}
	return out, nil
}

// StockAvailable is the non-locking stock read used for badges
func (s *CartService) StockAvailable(ctx context.Context, branchID, variantID uuid.UUID) (int, error) {
	return s.repos.Stock.Available(ctx, branchID, variantID)
}
