package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// RegisterHandler handles the branch's register session
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// Current returns the open session of the operator's branch, if any
func (h *RegisterHandler) Current(c *gin.Context) {
	a := actor(c)
	session, err := h.registerService.Current(c.Request.Context(), a.BranchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register retrieved successfully", gin.H{
		"open":    session != nil,
		"session": session,
		"mine":    session != nil && session.OpenedByID == a.OperatorID,
	})
}

// Open opens the register for the caller
func (h *RegisterHandler) Open(c *gin.Context) {
	a := actor(c)
	session, err := h.registerService.Open(c.Request.Context(), a.BranchID, a.OperatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Register opened", session)
}

// Close closes the register the caller opened
func (h *RegisterHandler) Close(c *gin.Context) {
	a := actor(c)
	summary, err := h.registerService.Close(c.Request.Context(), a.BranchID, a.OperatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register closed", summary)
}

// ForceClose closes the branch's register whoever opened it. Admin only.
func (h *RegisterHandler) ForceClose(c *gin.Context) {
	a := actor(c)
	summary, err := h.registerService.ForceClose(c.Request.Context(), a.BranchID, a.OperatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register closed", summary)
}
