package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/metrics"
	"github.com/sangkips/retailpos-api/pkg/logger"
)

// RegisterService opens and closes register sessions and gates every
// operation that changes a cart or stock.
type RegisterService struct {
	repos *repository.Repositories
	tx    repository.TxManager
}

// NewRegisterService creates a new register service
func NewRegisterService(repos *repository.Repositories, tx repository.TxManager) *RegisterService {
	return &RegisterService{repos: repos, tx: tx}
}

// Current returns the branch's open session, or nil
func (s *RegisterService) Current(ctx context.Context, branchID uuid.UUID) (*entity.RegisterSession, error) {
	return s.repos.Registers.GetOpenByBranch(ctx, branchID)
}

// Open starts a session for the operator. The branch row lock serializes
// concurrent opens; the partial unique index backs it up.
func (s *RegisterService) Open(ctx context.Context, branchID, operatorID uuid.UUID) (*entity.RegisterSession, error) {
	var session *entity.RegisterSession
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := lockActiveBranch(ctx, repos, branchID); err != nil {
			return err
		}

		open, err := repos.Registers.GetOpenByBranch(ctx, branchID)
		if err != nil {
			return err
		}
		if open != nil {
			return entity.ErrRegisterAlreadyOpen
		}

		session = &entity.RegisterSession{
			BranchID:   branchID,
			OpenedByID: operatorID,
			OpenedAt:   time.Now(),
		}
		return repos.Registers.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	metrics.RegisterTransitions.WithLabelValues("open").Inc()
	logger.FromContext(ctx).Info("register opened", "branch_id", branchID, "operator_id", operatorID, "session_id", session.ID)
	return session, nil
}

// Close ends the session the operator opened
func (s *RegisterService) Close(ctx context.Context, branchID, operatorID uuid.UUID) (*entity.SalesSummary, error) {
	return s.close(ctx, branchID, operatorID, true)
}

// ForceClose ends the branch's session whoever opened it
func (s *RegisterService) ForceClose(ctx context.Context, branchID, adminID uuid.UUID) (*entity.SalesSummary, error) {
	return s.close(ctx, branchID, adminID, false)
}

func (s *RegisterService) close(ctx context.Context, branchID, operatorID uuid.UUID, ownerOnly bool) (*entity.SalesSummary, error) {
	var summary *entity.SalesSummary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := lockActiveBranch(ctx, repos, branchID); err != nil {
			return err
		}

		open, err := repos.Registers.GetOpenByBranch(ctx, branchID)
		if err != nil {
			return err
		}
		if open == nil {
			return entity.ErrNoOpenRegister
		}
		if ownerOnly && open.OpenedByID != operatorID {
			return entity.ErrRegisterHeldByOther
		}

		now := time.Now()
		open.ClosedAt = &now
		open.ClosedByID = &operatorID
		if err := repos.Registers.Update(ctx, open); err != nil {
			return err
		}

		count, total, err := repos.Sales.SummarizeSession(ctx, open.ID)
		if err != nil {
			return err
		}
		summary = &entity.SalesSummary{SessionID: open.ID, Count: count, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "close"
	if !ownerOnly {
		action = "force_close"
	}
	metrics.RegisterTransitions.WithLabelValues(action).Inc()
	logger.FromContext(ctx).Info("register closed",
		"branch_id", branchID, "operator_id", operatorID, "forced", !ownerOnly,
		"sales", summary.Count, "total", summary.Total.StringFixed(2))
	return summary, nil
}

// Authorize checks that the operator holds the branch's open session. It
// takes no lock; confirm repeats the check under the branch lock.
func (s *RegisterService) Authorize(ctx context.Context, branchID, operatorID uuid.UUID) (*entity.RegisterSession, error) {
	return authorize(ctx, s.repos, branchID, operatorID)
}

func authorize(ctx context.Context, repos *repository.Repositories, branchID, operatorID uuid.UUID) (*entity.RegisterSession, error) {
	open, err := repos.Registers.GetOpenByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, entity.ErrNoOpenRegister
	}
	if open.OpenedByID != operatorID {
		return nil, entity.ErrRegisterHeldByOther
	}
	return open, nil
}

func lockActiveBranch(ctx context.Context, repos *repository.Repositories, branchID uuid.UUID) (*entity.Branch, error) {
	branch, err := repos.Branches.LockByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, entity.ErrBranchNotFound
	}
	if !branch.Active {
		return nil, entity.ErrBranchInactive
	}
	return branch, nil
}
