package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/cart"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/metrics"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/money"
	"github.com/sangkips/retailpos-api/pkg/sanitize"
	"gorm.io/datatypes"
)

// CheckoutService turns a cart and its payment drafts into a confirmed sale
type CheckoutService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	carts    repository.CartStore
	register *RegisterService
	settings *SettingsService
	now      func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	repos *repository.Repositories,
	tx repository.TxManager,
	carts repository.CartStore,
	register *RegisterService,
	settings *SettingsService,
) *CheckoutService {
	return &CheckoutService{
		repos:    repos,
		tx:       tx,
		carts:    carts,
		register: register,
		settings: settings,
		now:      time.Now,
	}
}

// checkoutPlan is everything validated before the transaction starts
type checkoutPlan struct {
	session *cart.Session
	tenders []cart.Tender
	recon   cart.Reconciliation
	flags   SalesFlags
	issuer  Issuer
}

// Confirm validates the cart and commits the sale. Nothing is written
// unless every step succeeds; the token is rotated only after commit.
func (s *CheckoutService) Confirm(ctx context.Context, actor Actor, token string) (*entity.Sale, error) {
	start := time.Now()
	sale, err := s.confirm(ctx, actor, token)

	outcome := "confirmed"
	if err != nil {
		outcome = apperror.GetAppError(err).Kind
		if errors.Is(err, entity.ErrInsufficientStock) {
			metrics.StockShortfalls.Inc()
		}
		if !apperror.IsDomain(err) {
			logger.FromContext(ctx).Error("sale confirmation failed",
				"branch_id", actor.BranchID, "operator_id", actor.OperatorID, "error", err)
		}
	}
	metrics.ObserveCheckout(outcome, time.Since(start).Seconds())
	return sale, err
}

func (s *CheckoutService) confirm(ctx context.Context, actor Actor, token string) (*entity.Sale, error) {
	plan, err := s.prepare(ctx, actor, token)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		sale, err = s.commit(ctx, repos, actor, token, plan)
		return err
	})
	if err != nil {
		return nil, err
	}

	plan.session.Clear()
	plan.session.RotateToken()
	if err := s.carts.Save(ctx, plan.session); err != nil {
		// the sale keeps the consumed token, so a replay is still refused
		logger.FromContext(ctx).Warn("failed to reset cart after sale", "sale_id", sale.ID, "error", err)
	}

	metrics.SaleAmount.Observe(sale.Total.InexactFloat64())
	logger.FromContext(ctx).Info("sale confirmed",
		"sale_id", sale.ID, "code", sale.Code(), "branch_id", sale.BranchID,
		"total", sale.Total.StringFixed(2), "payments", len(sale.Payments))
	return sale, nil
}

// prepare runs every check that needs no lock, in order
func (s *CheckoutService) prepare(ctx context.Context, actor Actor, token string) (*checkoutPlan, error) {
	session, err := s.carts.Load(ctx, actor.SessionKey)
	if err != nil {
		return nil, err
	}
	if session == nil || session.OperatorID != actor.OperatorID || token == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(session.ConfirmToken)) != 1 {
		return nil, entity.ErrStaleToken
	}
	used, err := s.repos.Sales.ExistsByConfirmToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if used {
		// the cart reset after the earlier commit was lost; finish it now
		session.Clear()
		session.RotateToken()
		_ = s.carts.Save(ctx, session)
		return nil, entity.ErrStaleToken
	}

	if _, err := s.register.Authorize(ctx, actor.BranchID, actor.OperatorID); err != nil {
		return nil, err
	}
	if session.IsEmpty() {
		return nil, entity.ErrEmptyCart
	}
	if len(session.Payments) == 0 {
		return nil, entity.ErrNoPayments
	}

	tenders, recon, err := cart.ValidateTenders(session.Payments, session.Total())
	if err != nil {
		return nil, err
	}

	for _, t := range tenders {
		if t.Draft.Tender != enum.TenderStoreCredit {
			continue
		}
		account, err := s.repos.Credit.GetAccountByCustomer(ctx, *t.Draft.CustomerID)
		if err != nil {
			return nil, err
		}
		if account == nil || !account.Usable() {
			return nil, entity.ErrCreditAccountClosed
		}
	}

	// both read once; a change while the transaction runs does not apply
	flags, err := s.settings.SalesFlags(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}
	issuer, err := s.settings.Issuer(ctx)
	if err != nil {
		return nil, err
	}

	return &checkoutPlan{session: session, tenders: tenders, recon: recon, flags: flags, issuer: issuer}, nil
}

// commit is the transactional body. It builds every row from scratch so a
// retried transaction starts clean.
func (s *CheckoutService) commit(ctx context.Context, repos *repository.Repositories, actor Actor, token string, plan *checkoutPlan) (*entity.Sale, error) {
	if _, err := lockActiveBranch(ctx, repos, actor.BranchID); err != nil {
		return nil, err
	}
	// a concurrent confirm with the same token may have committed while
	// this one waited on the branch lock
	used, err := repos.Sales.ExistsByConfirmToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, entity.ErrStaleToken
	}
	register, err := authorize(ctx, repos, actor.BranchID, actor.OperatorID)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		BranchID:          actor.BranchID,
		RegisterSessionID: register.ID,
		OperatorID:        actor.OperatorID,
		SoldAt:            s.now(),
		Status:            enum.SaleStatusDraft,
		Total:             plan.recon.BaseTotal,
		SurchargeTotal:    plan.recon.CreditSurcharges,
	}
	for _, t := range plan.tenders {
		if t.Draft.Tender == enum.TenderStoreCredit {
			sale.CustomerID = t.Draft.CustomerID
			break
		}
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, repos, sale.ID, plan.session)
	if err != nil {
		return nil, err
	}
	if err := repos.Sales.CreateLines(ctx, lines); err != nil {
		return nil, err
	}

	payments, err := s.buildPayments(ctx, repos, sale.ID, plan.tenders)
	if err != nil {
		return nil, err
	}
	if err := repos.Sales.CreatePayments(ctx, payments); err != nil {
		return nil, err
	}

	if !plan.flags.AllowSellBelowStock {
		if err := decrementStock(ctx, repos, actor.BranchID, lines); err != nil {
			return nil, err
		}
	}

	if err := postCreditDebits(ctx, repos, sale, payments, s.now()); err != nil {
		return nil, err
	}

	if sale.Number == nil {
		number, err := repos.Sales.NextNumber(ctx, actor.BranchID)
		if err != nil {
			return nil, err
		}
		sale.Number = &number
	}

	breakdowns := make([]money.Breakdown, len(lines))
	for i := range lines {
		breakdowns[i] = lines[i].Breakdown()
	}
	agg := money.Sum(breakdowns...)
	sale.FiscalNet, sale.FiscalVAT, sale.FiscalOtherIndirect = agg.Net, agg.VAT, agg.OtherIndirect

	sale.IssuerName = plan.issuer.DisplayName
	sale.IssuerLegalName = plan.issuer.LegalName
	sale.IssuerTaxID = plan.issuer.TaxID
	sale.IssuerAddress = plan.issuer.Address
	sale.IssuerRegime = string(plan.issuer.Regime)
	sale.Status = enum.SaleStatusConfirmed
	sale.ConfirmToken = &token

	if err := repos.Sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	sale.Lines = lines
	sale.Payments = payments
	return sale, nil
}

func (s *CheckoutService) buildLines(ctx context.Context, repos *repository.Repositories, saleID uuid.UUID, session *cart.Session) ([]entity.SaleLine, error) {
	variants, err := repos.Catalog.GetVariants(ctx, session.VariantIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Variant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	lines := make([]entity.SaleLine, 0, len(session.Lines))
	for _, l := range session.Lines {
		if l.Quantity <= 0 {
			continue
		}
		v, ok := byID[l.VariantID]
		if !ok || !v.Active {
			return nil, entity.ErrVariantUnavailable.WithDetails(map[string]uuid.UUID{"variant_id": l.VariantID})
		}
		rate := v.VATRatePct
		if rate.IsZero() {
			rate = money.StandardVATRate
		}
		line := entity.SaleLine{
			SaleID:      saleID,
			VariantID:   l.VariantID,
			Description: v.Label(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRatePct:  rate,
		}
		if err := line.Recompute(); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *CheckoutService) buildPayments(ctx context.Context, repos *repository.Repositories, saleID uuid.UUID, tenders []cart.Tender) ([]entity.Payment, error) {
	payments := make([]entity.Payment, 0, len(tenders))
	for _, t := range tenders {
		d := t.Draft
		p := entity.Payment{
			SaleID:           saleID,
			Tender:           d.Tender,
			Amount:           money.Round2(d.Amount),
			Installments:     1,
			Reference:        sanitize.Text(d.Reference, 120),
			TerminalProvider: d.Terminal.Provider,
			TerminalID:       d.Terminal.TerminalID,
			TerminalBatch:    d.Terminal.Batch,
			TerminalVoucher:  d.Terminal.Voucher,
			TerminalAuthCode: d.Terminal.AuthCode,
			CardBrand:        d.Terminal.CardBrand,
			CardLast4:        sanitize.Last4(d.Terminal.Last4),
		}

		switch d.Tender {
		case enum.TenderCredit:
			p.Installments = d.Installments()
			p.SurchargePct = d.SurchargePct()
			if d.Credit.CardBrand != "" {
				p.CardBrand = d.Credit.CardBrand
			}
			if d.Credit.PlanID != nil {
				linked, err := repos.Plans.FindByID(ctx, *d.Credit.PlanID)
				if err != nil {
					return nil, err
				}
				// the plan must still offer the terms the customer agreed to
				if linked == nil || linked.Installments != p.Installments || !linked.SurchargePct.Equal(p.SurchargePct) {
					return nil, entity.ErrInvalidPlan
				}
				p.PlanID = &linked.ID
				p.Plan = linked
			}
		case enum.TenderStoreCredit:
			p.CustomerID = d.CustomerID
		}

		p.Normalize()
		if !p.SurchargeAmount.Equal(t.Surcharge) {
			return nil, entity.InvalidPayment(t.Index, "surcharge does not match the reconciled amount")
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// decrementStock locks each stock row before reading it. Rows are taken in
// variant order so two confirms never wait on each other crosswise.
func decrementStock(ctx context.Context, repos *repository.Repositories, branchID uuid.UUID, lines []entity.SaleLine) error {
	want := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		want[l.VariantID] += l.Quantity
	}
	ids := make([]uuid.UUID, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		row, err := repos.Stock.LockForUpdate(ctx, branchID, id)
		if err != nil {
			return err
		}
		if row.Quantity < want[id] {
			shortfall := entity.StockShortfall{VariantID: id, Available: row.Quantity, Requested: want[id]}
			v, err := repos.Catalog.GetVariant(ctx, id)
			if err != nil {
				return err
			}
			if v != nil {
				shortfall.SKU = v.SKU
			}
			return entity.InsufficientStock(shortfall)
		}
		row.Quantity -= want[id]
		if err := repos.Stock.SetQuantity(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// postCreditDebits locks each charged account, re-checks it and appends a
// DEBIT referencing the sale
func postCreditDebits(ctx context.Context, repos *repository.Repositories, sale *entity.Sale, payments []entity.Payment, at time.Time) error {
	charged := make([]*entity.Payment, 0)
	for i := range payments {
		if payments[i].Tender == enum.TenderStoreCredit {
			charged = append(charged, &payments[i])
		}
	}
	sort.SliceStable(charged, func(i, j int) bool {
		return charged[i].CustomerID.String() < charged[j].CustomerID.String()
	})

	for _, p := range charged {
		account, err := repos.Credit.LockAccountByCustomer(ctx, *p.CustomerID)
		if err != nil {
			return err
		}
		if account == nil || !account.Usable() {
			return entity.ErrCreditAccountClosed
		}

		meta, _ := json.Marshal(map[string]string{
			"register_session_id": sale.RegisterSessionID.String(),
			"operator_id":         sale.OperatorID.String(),
		})
		saleID := sale.ID
		movement := &entity.CreditMovement{
			AccountID:  account.ID,
			Type:       enum.MovementDebit,
			Amount:     p.Amount,
			OccurredAt: at,
			SaleID:     &saleID,
			Reference:  p.Reference,
			Note:       "POS sale",
			Meta:       datatypes.JSON(meta),
		}
		if err := repos.Credit.CreateMovement(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}
