package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/retailpos-api/pkg/logger"
)

// BranchMiddleware requires the operator to be assigned to a branch and
// scopes the request context to it. Runs after AuthMiddleware.
func BranchMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID := GetBranchID(c)
		if branchID == uuid.Nil {
			response.Error(c, entity.ErrNoBranchAssigned)
			c.Abort()
			return
		}

		ctx := repository.WithBranch(c.Request.Context(), branchID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("branch_id", branchID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBranchID retrieves the operator's branch from gin context
func GetBranchID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(CtxBranchID)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
