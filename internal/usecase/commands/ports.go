package commands

import (
	"context"
	"time"

	"ticket-hold/internal/domain/ticket"
	"ticket-hold/internal/events"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/repository"

	"github.com/google/uuid"
)

// TicketRepository is the write-side storage port. Every method runs against
// the caller's transaction handle; the conditional transitions return whether
// any row matched so the caller can classify the loss of a race.
type TicketRepository interface {
	LockZone(ctx context.Context, tx db.DBTX, zoneID uuid.UUID) (*repository.ZoneRow, error)
	CountActive(ctx context.Context, tx db.DBTX, zoneID uuid.UUID, now time.Time) (int, error)
	InsertTicket(ctx context.Context, tx db.DBTX, t *ticket.Ticket) error
	InsertReservation(ctx context.Context, tx db.DBTX, res *ticket.Reservation) error
	FindTicket(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ticket.Ticket, error)
	FindReservation(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ticket.Reservation, error)
	FindReservationByTicket(ctx context.Context, tx db.DBTX, ticketID uuid.UUID) (*ticket.Reservation, error)
	ConfirmReservation(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (uuid.UUID, bool, error)
	ExpireReservation(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (uuid.UUID, bool, error)
	CancelReservation(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
	MarkTicketPaid(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
	CancelTicket(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
	ListExpiredReservationIDs(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]uuid.UUID, error)
}

// EventPublisher delivers lifecycle events after the storage transaction has
// committed. Failures must never propagate to the command's caller.
type EventPublisher interface {
	Publish(ctx context.Context, event events.LifecycleEvent) error
}
