package request

import (
	"ticket-hold/internal/domain/ticket"

	"github.com/google/uuid"
)

type CreateTicketRequest struct {
	ZoneID        uuid.UUID `json:"zoneId" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required"`
}

// IsHold reports whether the request asks for a reservation instead of an
// immediate purchase.
func (r CreateTicketRequest) IsHold() bool {
	return ticket.PaymentMethod(r.PaymentMethod) == ticket.PaymentNone
}

func (r CreateTicketRequest) Method() ticket.PaymentMethod {
	return ticket.PaymentMethod(r.PaymentMethod)
}
