package api

import (
	"errors"
	"net/http"

	resdto "ticket-hold/internal/handler/dto/response"
	"ticket-hold/internal/handler/httperr"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.TicketCommands
	queries  queries.TicketQueries
}

func NewReservationHandler(ticketCommands commands.TicketCommands, ticketQueries queries.TicketQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: ticketCommands,
		queries:  ticketQueries,
	}
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format")
		return
	}

	view, err := h.queries.GetReservation(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// ConfirmReservation settles a live hold into a paid ticket. A hold past its
// expiration is gone even if the sweeper has not visited it yet.
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format")
		return
	}

	view, err := h.commands.Confirm(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found")
		case errors.Is(err, commands.ErrHoldExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "Reservation hold has expired")
		case errors.Is(err, commands.ErrAlreadyTerminal):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is already settled")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format")
		return
	}

	if err := h.commands.CancelReservation(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found")
		case errors.Is(err, commands.ErrAlreadyTerminal):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is already settled")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
