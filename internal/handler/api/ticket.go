package api

import (
	"errors"
	"net/http"

	reqdto "ticket-hold/internal/handler/dto/request"
	resdto "ticket-hold/internal/handler/dto/response"
	"ticket-hold/internal/handler/middleware"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketHandler struct {
	commands commands.TicketCommands
	queries  queries.TicketQueries
}

func NewTicketHandler(ticketCommands commands.TicketCommands, ticketQueries queries.TicketQueries) *TicketHandler {
	return &TicketHandler{
		commands: ticketCommands,
		queries:  ticketQueries,
	}
}

// CreateTicket handles both flavors of ticket creation. A paymentMethod of
// "none" opens a time-boxed hold; anything else is an immediate purchase.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateTicketRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if req.IsHold() {
		view, err := h.commands.Reserve(c.Request.Context(), req.ZoneID, clientID)
		if err != nil {
			h.writeCreateError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resdto.FromReservationView(view))
		return
	}

	view, err := h.commands.Purchase(c.Request.Context(), req.ZoneID, clientID, req.Method())
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTicketView(view))
}

func (h *TicketHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrZoneNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Zone not found",
		})
	case errors.Is(err, commands.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Zone is sold out",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid payment method",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ticket ID format",
		})
		return
	}

	view, err := h.queries.GetTicket(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

func (h *TicketHandler) GetClientTickets(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.queries.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.TicketResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromTicketView(view)
	}

	c.JSON(http.StatusOK, response)
}

func (h *TicketHandler) CancelTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ticket ID format",
		})
		return
	}

	if err := h.commands.CancelTicket(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, commands.ErrAlreadyTerminal):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Ticket is already settled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) GetZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid zone ID format",
		})
		return
	}

	view, err := h.queries.GetZone(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrZoneNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Zone not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromZoneView(view))
}
