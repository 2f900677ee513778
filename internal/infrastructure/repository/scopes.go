package repository

import (
	"context"

	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BranchScope filters by the branch in ctx. Without one it matches nothing,
// so a missing branch can never leak another branch's rows.
func BranchScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		branchID, ok := domainRepo.GetBranchID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("branch_id = ?", branchID)
	}
}

// ForUpdate holds an exclusive row lock until the enclosing transaction ends
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
