package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

// SaleHandler serves the branch's sales history
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// ListSales lists sales with ?page, ?per_page, ?status, ?from and ?to
// (dates as YYYY-MM-DD, both inclusive)
func (h *SaleHandler) ListSales(c *gin.Context) {
	var params repository.SaleFilterParams
	if err := c.ShouldBindQuery(&params.PaginationParams); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := enum.ParseSaleStatus(strings.ToUpper(raw))
		if !ok {
			response.Error(c, apperror.NewBadRequestError("Invalid status"))
			return
		}
		params.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			response.Error(c, apperror.NewBadRequestError("Invalid from date"))
			return
		}
		params.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			response.Error(c, apperror.NewBadRequestError("Invalid to date"))
			return
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		params.To = &end
	}

	result, err := h.saleService.List(c.Request.Context(), actor(c).BranchID, &params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Sales retrieved successfully", result)
}

// GetSale returns one sale with lines, payments and credit balances
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.saleService.Get(c.Request.Context(), actor(c).BranchID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", detail)
}
