package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/sanitize"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// AdminService backs the provisioning commands: branches, operators, stock
// counts and installment plans
type AdminService struct {
	repos *repository.Repositories
	tx    repository.TxManager
}

// NewAdminService creates a new admin service
func NewAdminService(repos *repository.Repositories, tx repository.TxManager) *AdminService {
	return &AdminService{repos: repos, tx: tx}
}

func (s *AdminService) CreateBranch(ctx context.Context, name, address string) (*entity.Branch, error) {
	name = sanitize.Text(name, 255)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}
	branch := &entity.Branch{Name: name, Address: sanitize.Text(address, 255), Active: true}
	if err := s.repos.Branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// CreateOperatorInput represents the create operator input
type CreateOperatorInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
	BranchID    *uuid.UUID
}

func (s *AdminService) CreateOperator(ctx context.Context, input *CreateOperatorInput) (*entity.Operator, error) {
	var fieldErrs []apperror.FieldError
	username := strings.TrimSpace(input.Username)
	if username == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "username", Message: "is required"})
	}
	if len(input.Password) < 8 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	role := input.Role
	if role == "" {
		role = entity.RoleCashier
	}
	if role != entity.RoleAdmin && role != entity.RoleCashier {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "role", Message: "must be admin or cashier"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	existing, err := s.repos.Operators.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}
	if input.BranchID != nil {
		branch, err := s.repos.Branches.GetByID(ctx, *input.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, entity.ErrBranchNotFound
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	operator := &entity.Operator{
		Username:     username,
		DisplayName:  sanitize.Text(input.DisplayName, 255),
		PasswordHash: hash,
		Role:         role,
		BranchID:     input.BranchID,
		Active:       true,
	}
	if err := s.repos.Operators.Create(ctx, operator); err != nil {
		return nil, err
	}
	return operator, nil
}

// SetStock overwrites the on-hand count of a SKU at a branch, under the
// same row lock confirm takes
func (s *AdminService) SetStock(ctx context.Context, branchID uuid.UUID, sku string, qty int) (*entity.BranchStock, error) {
	if qty < 0 {
		return nil, apperror.NewBadRequestError("Quantity must not be negative")
	}
	variant, err := s.repos.Catalog.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, apperror.NewNotFoundError("Variant " + sku)
	}

	var row *entity.BranchStock
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		if row, err = repos.Stock.LockForUpdate(ctx, branchID, variant.ID); err != nil {
			return err
		}
		row.Quantity = qty
		return repos.Stock.SetQuantity(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("stock set", "branch_id", branchID, "sku", sku, "quantity", qty)
	return row, nil
}

// PlanInput is one installment plan row to import
type PlanInput struct {
	CardBrand    string
	Installments int
	SurchargePct decimal.Decimal
	Active       bool
}

// ImportPlans upserts plans by (brand, installments) in one transaction
func (s *AdminService) ImportPlans(ctx context.Context, plans []PlanInput) (int, error) {
	for i, p := range plans {
		if strings.TrimSpace(p.CardBrand) == "" || p.Installments < 1 || p.SurchargePct.IsNegative() {
			return 0, apperror.NewBadRequestError("Invalid plan at position " + strconv.Itoa(i+1))
		}
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		for _, p := range plans {
			plan := &entity.InstallmentPlan{
				CardBrand:    strings.TrimSpace(p.CardBrand),
				Installments: p.Installments,
				SurchargePct: p.SurchargePct.Round(2),
				Active:       p.Active,
			}
			if err := repos.Plans.Upsert(ctx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(plans), nil
}
