//go:build unit

package ticket_test

import (
	"testing"

	"ticket-hold/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, ticket.StatusPending.IsTerminal())
	// Paid tickets can still be cancelled, so paid is not terminal.
	assert.False(t, ticket.StatusPaid.IsTerminal())
	assert.True(t, ticket.StatusCancelled.IsTerminal())
}

func TestReservationStatus_IsTerminal(t *testing.T) {
	assert.False(t, ticket.ReservationReserved.IsTerminal())
	assert.True(t, ticket.ReservationConfirmed.IsTerminal())
	assert.True(t, ticket.ReservationExpired.IsTerminal())
	assert.True(t, ticket.ReservationCancelled.IsTerminal())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	valid := []ticket.PaymentMethod{ticket.PaymentCard, ticket.PaymentCash, ticket.PaymentTransfer, ticket.PaymentNone}
	for _, m := range valid {
		assert.True(t, m.IsValid(), m.String())
	}
	assert.False(t, ticket.PaymentMethod("check").IsValid())
	assert.False(t, ticket.PaymentMethod("").IsValid())
}
