package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleService is the read side of confirmed sales
type SaleService struct {
	repos *repository.Repositories
}

// NewSaleService creates a new sale service
func NewSaleService(repos *repository.Repositories) *SaleService {
	return &SaleService{repos: repos}
}

// SaleSummary is a sale as listed
type SaleSummary struct {
	entity.Sale
	Code string `json:"code"`
}

// CustomerBalance is a credit balance after the sale was charged to it
type CustomerBalance struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Label      string          `json:"label"`
	Balance    decimal.Decimal `json:"balance"`
}

// SaleDetail is a sale with its lines, payments and affected credit balances
type SaleDetail struct {
	*entity.Sale
	Code           string            `json:"code"`
	CreditBalances []CustomerBalance `json:"credit_balances,omitempty"`
}

// List returns the branch's sales, newest first
func (s *SaleService) List(ctx context.Context, branchID uuid.UUID, params *repository.SaleFilterParams) (*pagination.PaginatedResult[SaleSummary], error) {
	params.Validate()
	ctx = repository.WithBranch(ctx, branchID)

	sales, total, err := s.repos.Sales.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]SaleSummary, len(sales))
	for i := range sales {
		items[i] = SaleSummary{Sale: sales[i], Code: sales[i].Code()}
	}
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Get returns one of the branch's sales
func (s *SaleService) Get(ctx context.Context, branchID, id uuid.UUID) (*SaleDetail, error) {
	sale, err := s.repos.Sales.GetWithDetails(repository.WithBranch(ctx, branchID), id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, entity.ErrSaleNotFound
	}

	detail := &SaleDetail{Sale: sale, Code: sale.Code()}
	seen := map[uuid.UUID]bool{}
	for _, p := range sale.Payments {
		if p.Tender != enum.TenderStoreCredit || p.CustomerID == nil || seen[*p.CustomerID] {
			continue
		}
		seen[*p.CustomerID] = true

		account, err := s.repos.Credit.GetAccountByCustomer(ctx, *p.CustomerID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			continue
		}
		balance, err := s.repos.Credit.Balance(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		cb := CustomerBalance{CustomerID: *p.CustomerID, Balance: balance}
		if account.Customer != nil {
			cb.Label = account.Customer.DisplayLabel()
		}
		detail.CreditBalances = append(detail.CreditBalances, cb)
	}
	return detail, nil
}
