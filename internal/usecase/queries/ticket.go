package queries

import (
	"context"
	"time"

	"ticket-hold/internal/infra"
	"ticket-hold/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTicketNotFound      = errs.New("ticket not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrZoneNotFound        = errs.New("zone not found")
)

// TicketView joins the ticket with its reservation, if one exists. Direct
// purchases have nil reservation fields.
type TicketView struct {
	ID                uuid.UUID
	ZoneID            uuid.UUID
	ClientID          uuid.UUID
	QRCode            string
	PaymentMethod     string
	Status            string
	PurchasedAt       time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ReservationID     *uuid.UUID
	ReservationStatus *string
	ExpiresAt         *time.Time
}

type ReservationView struct {
	ID           uuid.UUID
	TicketID     uuid.UUID
	ReservedAt   time.Time
	ExpiresAt    time.Time
	Status       string
	TicketStatus string
	ZoneID       uuid.UUID
	ClientID     uuid.UUID
}

type ZoneView struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Price    decimal.Decimal
}

type TicketReadStore interface {
	FindTicketByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
	FindReservationByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindTicketsByClient(ctx context.Context, clientID uuid.UUID) ([]*TicketView, error)
}

type ZoneReadStore interface {
	FindZoneByID(ctx context.Context, id uuid.UUID) (*ZoneView, error)
}

type TicketQueries interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*TicketView, error)
	GetZone(ctx context.Context, id uuid.UUID) (*ZoneView, error)
}

type ticketQueriesImpl struct {
	tickets TicketReadStore
	zones   ZoneReadStore
}

func NewTicketQueries(tickets TicketReadStore, zones ZoneReadStore) TicketQueries {
	return &ticketQueriesImpl{
		tickets: tickets,
		zones:   zones,
	}
}

func (q *ticketQueriesImpl) GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error) {
	view, err := q.tickets.FindTicketByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *ticketQueriesImpl) GetReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.tickets.FindReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *ticketQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*TicketView, error) {
	return q.tickets.FindTicketsByClient(ctx, clientID)
}

func (q *ticketQueriesImpl) GetZone(ctx context.Context, id uuid.UUID) (*ZoneView, error) {
	view, err := q.zones.FindZoneByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return view, nil
}
