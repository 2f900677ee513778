package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ErrDuplicate mirrors a unique constraint violation
var ErrDuplicate = errors.New("memory: duplicate key")

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type branchRepo struct{ v view }

func (r *branchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var out *entity.Branch
	err := r.v.read(func(st *state) error {
		if b, ok := st.branches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

// LockByID needs no extra work: a transaction already owns the store.
func (r *branchRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	return r.GetByID(ctx, id)
}

func (r *branchRepo) Create(ctx context.Context, b *entity.Branch) error {
	return r.v.read(func(st *state) error {
		ensureID(&b.ID)
		b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
		st.branches[b.ID] = *b
		return nil
	})
}

func (r *branchRepo) List(ctx context.Context) ([]entity.Branch, error) {
	var out []entity.Branch
	err := r.v.read(func(st *state) error {
		for _, b := range st.branches {
			out = append(out, b)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

type operatorRepo struct{ v view }

func (r *operatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error) {
	var out *entity.Operator
	err := r.v.read(func(st *state) error {
		if o, ok := st.operators[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *operatorRepo) GetByUsername(ctx context.Context, username string) (*entity.Operator, error) {
	var out *entity.Operator
	err := r.v.read(func(st *state) error {
		for _, o := range st.operators {
			if o.Username == username {
				op := o
				out = &op
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *operatorRepo) Create(ctx context.Context, o *entity.Operator) error {
	return r.v.read(func(st *state) error {
		for _, existing := range st.operators {
			if existing.Username == o.Username {
				return ErrDuplicate
			}
		}
		ensureID(&o.ID)
		o.CreatedAt, o.UpdatedAt = time.Now(), time.Now()
		row := *o
		row.Branch = nil
		st.operators[o.ID] = row
		return nil
	})
}

func (r *operatorRepo) Update(ctx context.Context, o *entity.Operator) error {
	return r.v.read(func(st *state) error {
		o.UpdatedAt = time.Now()
		row := *o
		row.Branch = nil
		st.operators[o.ID] = row
		return nil
	})
}

type catalogRepo struct{ v view }

func (r *catalogRepo) GetVariant(ctx context.Context, id uuid.UUID) (*entity.Variant, error) {
	var out *entity.Variant
	err := r.v.read(func(st *state) error {
		if v, ok := st.variants[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error) {
	var out []entity.Variant
	err := r.v.read(func(st *state) error {
		for _, id := range ids {
			if v, ok := st.variants[id]; ok {
				out = append(out, v)
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetBySKU(ctx context.Context, sku string) (*entity.Variant, error) {
	var out *entity.Variant
	err := r.v.read(func(st *state) error {
		for _, v := range st.variants {
			if v.SKU == sku {
				found := v
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) FindByCode(ctx context.Context, code string) ([]entity.Variant, error) {
	var out []entity.Variant
	err := r.v.read(func(st *state) error {
		for _, v := range st.variants {
			if v.Active && (v.SKU == code || (v.Barcode != "" && v.Barcode == code)) {
				out = append(out, v)
			}
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) Search(ctx context.Context, query string, limit int) ([]entity.Variant, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []entity.Variant
	err := r.v.read(func(st *state) error {
		for _, v := range st.variants {
			if !v.Active {
				continue
			}
			hay := strings.ToLower(v.ProductName + " " + v.Name + " " + v.SKU + " " + v.Barcode)
			if q == "" || strings.Contains(hay, q) {
				out = append(out, v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *catalogRepo) Create(ctx context.Context, v *entity.Variant) error {
	return r.v.read(func(st *state) error {
		for _, existing := range st.variants {
			if existing.SKU == v.SKU {
				return ErrDuplicate
			}
		}
		ensureID(&v.ID)
		v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
		st.variants[v.ID] = *v
		return nil
	})
}

type stockRepo struct{ v view }

func (r *stockRepo) Available(ctx context.Context, branchID, variantID uuid.UUID) (int, error) {
	qty := 0
	err := r.v.read(func(st *state) error {
		if s, ok := st.stock[stockKey{branchID, variantID}]; ok {
			qty = s.Quantity
		}
		return nil
	})
	return qty, err
}

func (r *stockRepo) AvailableMany(ctx context.Context, branchID uuid.UUID, variantIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(variantIDs))
	err := r.v.read(func(st *state) error {
		for _, id := range variantIDs {
			if s, ok := st.stock[stockKey{branchID, id}]; ok {
				out[id] = s.Quantity
			}
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) LockForUpdate(ctx context.Context, branchID, variantID uuid.UUID) (*entity.BranchStock, error) {
	var out entity.BranchStock
	err := r.v.read(func(st *state) error {
		key := stockKey{branchID, variantID}
		s, ok := st.stock[key]
		if !ok {
			s = entity.BranchStock{ID: uuid.New(), BranchID: branchID, VariantID: variantID, UpdatedAt: time.Now()}
			st.stock[key] = s
		}
		out = s
		return nil
	})
	return &out, err
}

func (r *stockRepo) SetQuantity(ctx context.Context, s *entity.BranchStock) error {
	return r.v.read(func(st *state) error {
		ensureID(&s.ID)
		s.UpdatedAt = time.Now()
		st.stock[stockKey{s.BranchID, s.VariantID}] = *s
		return nil
	})
}

type creditRepo struct{ v view }

func (r *creditRepo) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.read(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *creditRepo) GetAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error) {
	var out *entity.CreditAccount
	err := r.v.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.CustomerID == customerID {
				acc := a
				if c, ok := st.customers[customerID]; ok {
					acc.Customer = &c
				}
				out = &acc
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *creditRepo) LockAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditAccount, error) {
	return r.GetAccountByCustomer(ctx, customerID)
}

func (r *creditRepo) CreateMovement(ctx context.Context, m *entity.CreditMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return r.v.read(func(st *state) error {
		if _, ok := st.accounts[m.AccountID]; !ok {
			return errors.New("memory: credit account does not exist")
		}
		ensureID(&m.ID)
		m.CreatedAt = time.Now()
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *creditRepo) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.v.read(func(st *state) error {
		for i := range st.movements {
			if st.movements[i].AccountID == accountID {
				balance = balance.Add(st.movements[i].Signed())
			}
		}
		return nil
	})
	return balance, err
}

func (r *creditRepo) CreateCustomer(ctx context.Context, c *entity.Customer) error {
	return r.v.read(func(st *state) error {
		ensureID(&c.ID)
		c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *creditRepo) CreateAccount(ctx context.Context, a *entity.CreditAccount) error {
	return r.v.read(func(st *state) error {
		for _, existing := range st.accounts {
			if existing.CustomerID == a.CustomerID {
				return ErrDuplicate
			}
		}
		ensureID(&a.ID)
		a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
		row := *a
		row.Customer = nil
		st.accounts[a.ID] = row
		return nil
	})
}

type planRepo struct{ v view }

func (r *planRepo) activeWhere(match func(p entity.InstallmentPlan) bool) ([]entity.InstallmentPlan, error) {
	var out []entity.InstallmentPlan
	err := r.v.read(func(st *state) error {
		for _, p := range st.plans {
			if p.Active && match(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CardBrand != out[j].CardBrand {
			return out[i].CardBrand < out[j].CardBrand
		}
		return out[i].Installments < out[j].Installments
	})
	return out, err
}

func firstPlan(plans []entity.InstallmentPlan, err error) (*entity.InstallmentPlan, error) {
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return &plans[0], nil
}

func (r *planRepo) FindDefault(ctx context.Context, cardBrand string) (*entity.InstallmentPlan, error) {
	return firstPlan(r.activeWhere(func(p entity.InstallmentPlan) bool { return p.CardBrand == cardBrand }))
}

func (r *planRepo) FindByInstallments(ctx context.Context, cardBrand string, installments int) (*entity.InstallmentPlan, error) {
	return firstPlan(r.activeWhere(func(p entity.InstallmentPlan) bool {
		return p.CardBrand == cardBrand && p.Installments == installments
	}))
}

func (r *planRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.InstallmentPlan, error) {
	return firstPlan(r.activeWhere(func(p entity.InstallmentPlan) bool { return p.ID == id }))
}

func (r *planRepo) ListByBrand(ctx context.Context, cardBrand string) ([]entity.InstallmentPlan, error) {
	return r.activeWhere(func(p entity.InstallmentPlan) bool { return p.CardBrand == cardBrand })
}

func (r *planRepo) ListBrands(ctx context.Context) ([]string, error) {
	plans, err := r.activeWhere(func(entity.InstallmentPlan) bool { return true })
	if err != nil {
		return nil, err
	}
	var brands []string
	for _, p := range plans {
		if len(brands) == 0 || brands[len(brands)-1] != p.CardBrand {
			brands = append(brands, p.CardBrand)
		}
	}
	return brands, nil
}

func (r *planRepo) Upsert(ctx context.Context, plan *entity.InstallmentPlan) error {
	return r.v.read(func(st *state) error {
		for id, p := range st.plans {
			if p.CardBrand == plan.CardBrand && p.Installments == plan.Installments {
				p.SurchargePct, p.Active, p.UpdatedAt = plan.SurchargePct, plan.Active, time.Now()
				st.plans[id] = p
				*plan = p
				return nil
			}
		}
		ensureID(&plan.ID)
		plan.CreatedAt, plan.UpdatedAt = time.Now(), time.Now()
		st.plans[plan.ID] = *plan
		return nil
	})
}

type registerRepo struct{ v view }

func (r *registerRepo) GetOpenByBranch(ctx context.Context, branchID uuid.UUID) (*entity.RegisterSession, error) {
	var out *entity.RegisterSession
	err := r.v.read(func(st *state) error {
		for _, s := range st.registers {
			if s.BranchID == branchID && s.ClosedAt == nil {
				open := s
				out = &open
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *registerRepo) Create(ctx context.Context, s *entity.RegisterSession) error {
	return r.v.read(func(st *state) error {
		for _, existing := range st.registers {
			if existing.BranchID == s.BranchID && existing.ClosedAt == nil {
				return entity.ErrRegisterAlreadyOpen
			}
		}
		ensureID(&s.ID)
		s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
		st.registers[s.ID] = *s
		return nil
	})
}

func (r *registerRepo) Update(ctx context.Context, s *entity.RegisterSession) error {
	return r.v.read(func(st *state) error {
		s.UpdatedAt = time.Now()
		st.registers[s.ID] = *s
		return nil
	})
}

type saleRepo struct{ v view }

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.v.read(func(st *state) error {
		ensureID(&sale.ID)
		sale.CreatedAt, sale.UpdatedAt = time.Now(), time.Now()
		return putSale(st, sale)
	})
}

// putSale enforces the same unique keys as the sales table
func putSale(st *state, sale *entity.Sale) error {
	for id, other := range st.sales {
		if id == sale.ID {
			continue
		}
		if sale.Number != nil && other.Number != nil && other.BranchID == sale.BranchID && *other.Number == *sale.Number {
			return ErrDuplicate
		}
		if sale.ConfirmToken != nil && other.ConfirmToken != nil && *other.ConfirmToken == *sale.ConfirmToken {
			return entity.ErrStaleToken
		}
	}
	row := *sale
	row.Lines, row.Payments = nil, nil
	st.sales[sale.ID] = row
	return nil
}

func (r *saleRepo) CreateLines(ctx context.Context, lines []entity.SaleLine) error {
	for i := range lines {
		if err := lines[i].Recompute(); err != nil {
			return err
		}
	}
	return r.v.read(func(st *state) error {
		for i := range lines {
			ensureID(&lines[i].ID)
			lines[i].CreatedAt, lines[i].UpdatedAt = time.Now(), time.Now()
			st.lines = append(st.lines, lines[i])
		}
		return nil
	})
}

func (r *saleRepo) CreatePayments(ctx context.Context, payments []entity.Payment) error {
	return r.v.read(func(st *state) error {
		for i := range payments {
			payments[i].Normalize()
			ensureID(&payments[i].ID)
			payments[i].CreatedAt = time.Now()
			row := payments[i]
			row.Plan = nil
			st.payments = append(st.payments, row)
		}
		return nil
	})
}

func (r *saleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	return r.v.read(func(st *state) error {
		sale.UpdatedAt = time.Now()
		return putSale(st, sale)
	})
}

func (r *saleRepo) NextNumber(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var max int64
	err := r.v.read(func(st *state) error {
		for _, s := range st.sales {
			if s.BranchID == branchID && s.Number != nil && *s.Number > max {
				max = *s.Number
			}
		}
		return nil
	})
	return max + 1, err
}

func (r *saleRepo) ExistsByConfirmToken(ctx context.Context, token string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, s := range st.sales {
			if s.ConfirmToken != nil && *s.ConfirmToken == token {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *saleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	branchID, ok := domainRepo.GetBranchID(ctx)
	if !ok {
		return nil, nil
	}
	var out *entity.Sale
	err := r.v.read(func(st *state) error {
		s, found := st.sales[id]
		if !found || s.BranchID != branchID {
			return nil
		}
		for _, l := range st.lines {
			if l.SaleID == id {
				s.Lines = append(s.Lines, l)
			}
		}
		for _, p := range st.payments {
			if p.SaleID == id {
				if p.PlanID != nil {
					if plan, ok := st.plans[*p.PlanID]; ok {
						p.Plan = &plan
					}
				}
				s.Payments = append(s.Payments, p)
			}
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *saleRepo) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	branchID, ok := domainRepo.GetBranchID(ctx)
	if !ok {
		return nil, 0, nil
	}
	var matched []entity.Sale
	err := r.v.read(func(st *state) error {
		for _, s := range st.sales {
			if s.BranchID != branchID {
				continue
			}
			if params.Status != nil && s.Status != *params.Status {
				continue
			}
			if params.From != nil && s.SoldAt.Before(*params.From) {
				continue
			}
			if params.To != nil && s.SoldAt.After(*params.To) {
				continue
			}
			matched = append(matched, s)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SoldAt.After(matched[j].SoldAt) })

	total := int64(len(matched))
	params.Validate()
	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *saleRepo) SummarizeSession(ctx context.Context, sessionID uuid.UUID) (int64, decimal.Decimal, error) {
	var count int64
	total := decimal.Zero
	err := r.v.read(func(st *state) error {
		for _, s := range st.sales {
			if s.RegisterSessionID == sessionID && s.Status == enum.SaleStatusConfirmed {
				count++
				total = total.Add(s.Total)
			}
		}
		return nil
	})
	return count, total, err
}

type settingsRepo struct{ v view }

func (r *settingsRepo) GetByKey(ctx context.Context, key string) (*entity.AppSetting, error) {
	var out *entity.AppSetting
	err := r.v.read(func(st *state) error {
		if s, ok := st.settings[key]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *settingsRepo) GetOrCreate(ctx context.Context, def *entity.AppSetting) (*entity.AppSetting, error) {
	var out entity.AppSetting
	err := r.v.read(func(st *state) error {
		if s, ok := st.settings[def.Key]; ok {
			out = s
			return nil
		}
		ensureID(&def.ID)
		def.CreatedAt, def.UpdatedAt = time.Now(), time.Now()
		st.settings[def.Key] = *def
		out = *def
		return nil
	})
	return &out, err
}

func (r *settingsRepo) Upsert(ctx context.Context, s *entity.AppSetting) error {
	return r.v.read(func(st *state) error {
		if existing, ok := st.settings[s.Key]; ok {
			s.ID, s.CreatedAt = existing.ID, existing.CreatedAt
		}
		ensureID(&s.ID)
		s.UpdatedAt = time.Now()
		st.settings[s.Key] = *s
		return nil
	})
}

func (r *settingsRepo) ListByPrefix(ctx context.Context, prefix string) ([]entity.AppSetting, error) {
	var out []entity.AppSetting
	err := r.v.read(func(st *state) error {
		for k, s := range st.settings {
			if strings.HasPrefix(k, prefix) {
				out = append(out, s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}
