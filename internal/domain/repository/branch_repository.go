package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

// BranchRepository is the branch directory
type BranchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	// LockByID reads the branch row FOR UPDATE; only meaningful in a transaction
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	Create(ctx context.Context, branch *entity.Branch) error
	List(ctx context.Context) ([]entity.Branch, error)
}

// OperatorRepository is the operator directory
type OperatorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error)
	GetByUsername(ctx context.Context, username string) (*entity.Operator, error)
	Create(ctx context.Context, operator *entity.Operator) error
	Update(ctx context.Context, operator *entity.Operator) error
}
