package repository

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

// BranchIDKey is the context key for the caller's branch
const BranchIDKey ctxKey = "branch_id"

// WithBranch adds the branch ID to ctx
func WithBranch(ctx context.Context, branchID uuid.UUID) context.Context {
	return context.WithValue(ctx, BranchIDKey, branchID)
}

// GetBranchID extracts the branch ID from ctx
func GetBranchID(ctx context.Context) (uuid.UUID, bool) {
	branchID, ok := ctx.Value(BranchIDKey).(uuid.UUID)
	return branchID, ok && branchID != uuid.Nil
}
