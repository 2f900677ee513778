package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// PrinterHandler serves sale tickets and the thermal printer
type PrinterHandler struct {
	ticketService *service.TicketService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(ticketService *service.TicketService) *PrinterHandler {
	return &PrinterHandler{ticketService: ticketService}
}

// GetStatus returns the current printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.ticketService.Status(c.Request.Context()))
}

// GetTicket returns the sale ticket, as text/plain when asked for text
func (h *PrinterHandler) GetTicket(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	branchID := actor(c).BranchID

	if c.Query("format") == "text" {
		text, err := h.ticketService.Text(c.Request.Context(), branchID, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
		return
	}

	ticket, err := h.ticketService.Ticket(c.Request.Context(), branchID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket retrieved successfully", ticket)
}

// PrintTicket sends the sale ticket to the branch printer
func (h *PrinterHandler) PrintTicket(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	ticket, err := h.ticketService.Print(c.Request.Context(), actor(c).BranchID, id)
	if err != nil {
		// The ticket was built but the printer failed
		if ticket != nil {
			response.OK(c, "Ticket generated but printing failed", gin.H{
				"ticket":  ticket,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket sent to printer", gin.H{"ticket": ticket})
}
