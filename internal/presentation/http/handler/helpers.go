package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// actor builds the service caller from the authenticated request
func actor(c *gin.Context) service.Actor {
	return service.Actor{
		OperatorID: middleware.GetOperatorID(c),
		BranchID:   middleware.GetBranchID(c),
		SessionKey: c.GetString(middleware.CtxSessionID),
		Admin:      IsAdmin(c),
	}
}

// IsAdmin checks if the operator has the admin role
func IsAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxRole) == entity.RoleAdmin
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperror.NewBadRequestError("Invalid " + name)
	}
	return n, nil
}
