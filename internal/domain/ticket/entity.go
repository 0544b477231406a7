package ticket

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPaymentRequired      = errors.New("payment method required for purchase")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid ticket status")
	ErrAlreadyTerminal      = errors.New("ticket is already in a terminal state")
	ErrHoldExpired          = errors.New("reservation hold has expired")
	ErrNotReserved          = errors.New("reservation is not in reserved state")
)

// Ticket is an admission record for a single seat in a zone. A pending ticket
// always has exactly one live Reservation; paid and cancelled tickets never do.
type Ticket struct {
	id            uuid.UUID
	zoneID        uuid.UUID
	clientID      uuid.UUID
	qrCode        string
	paymentMethod PaymentMethod
	status        Status
	purchasedAt   time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// Reservation is a time-boxed hold on the ticket it belongs to (1:1). Once it
// leaves ReservationReserved it is immutable.
type Reservation struct {
	id         uuid.UUID
	ticketID   uuid.UUID
	reservedAt time.Time
	expiresAt  time.Time
	status     ReservationStatus
}

// NewPurchase creates a paid ticket with no reservation row. Direct purchase
// bypasses the hold lifecycle entirely.
func NewPurchase(zoneID, clientID uuid.UUID, method PaymentMethod, qrCode string, now time.Time) (*Ticket, error) {
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if method == PaymentNone {
		return nil, ErrPaymentRequired
	}

	return &Ticket{
		id:            uuid.New(),
		zoneID:        zoneID,
		clientID:      clientID,
		qrCode:        qrCode,
		paymentMethod: method,
		status:        StatusPaid,
		purchasedAt:   now,
	}, nil
}

// NewHold creates a pending ticket together with its reserved hold. Both rows
// must be persisted in the same transaction.
func NewHold(zoneID, clientID uuid.UUID, qrCode string, now time.Time, holdDuration time.Duration) (*Ticket, *Reservation) {
	t := &Ticket{
		id:            uuid.New(),
		zoneID:        zoneID,
		clientID:      clientID,
		qrCode:        qrCode,
		paymentMethod: PaymentNone,
		status:        StatusPending,
		purchasedAt:   now,
	}
	r := &Reservation{
		id:         uuid.New(),
		ticketID:   t.id,
		reservedAt: now,
		expiresAt:  now.Add(holdDuration),
		status:     ReservationReserved,
	}
	return t, r
}

func ReconstructTicket(
	id, zoneID, clientID uuid.UUID,
	qrCode string,
	method PaymentMethod,
	status Status,
	purchasedAt, createdAt, updatedAt time.Time,
) *Ticket {
	return &Ticket{
		id:            id,
		zoneID:        zoneID,
		clientID:      clientID,
		qrCode:        qrCode,
		paymentMethod: method,
		status:        status,
		purchasedAt:   purchasedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func ReconstructReservation(
	id, ticketID uuid.UUID,
	reservedAt, expiresAt time.Time,
	status ReservationStatus,
) *Reservation {
	return &Reservation{
		id:         id,
		ticketID:   ticketID,
		reservedAt: reservedAt,
		expiresAt:  expiresAt,
		status:     status,
	}
}

func (t *Ticket) ID() uuid.UUID                { return t.id }
func (t *Ticket) ZoneID() uuid.UUID            { return t.zoneID }
func (t *Ticket) ClientID() uuid.UUID          { return t.clientID }
func (t *Ticket) QRCode() string               { return t.qrCode }
func (t *Ticket) PaymentMethod() PaymentMethod { return t.paymentMethod }
func (t *Ticket) Status() Status               { return t.status }
func (t *Ticket) PurchasedAt() time.Time       { return t.purchasedAt }
func (t *Ticket) CreatedAt() time.Time         { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time         { return t.updatedAt }

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) TicketID() uuid.UUID       { return r.ticketID }
func (r *Reservation) ReservedAt() time.Time     { return r.reservedAt }
func (r *Reservation) ExpiresAt() time.Time      { return r.expiresAt }
func (r *Reservation) Status() ReservationStatus { return r.status }

func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

// CanConfirm checks the confirm precondition: still reserved and not past
// expiration at the instant of confirmation. The storage layer re-checks the
// same condition atomically; this guard only produces the precise domain error.
func (r *Reservation) CanConfirm(now time.Time) error {
	if r.status != ReservationReserved {
		return ErrAlreadyTerminal
	}
	if r.IsExpiredAt(now) {
		return ErrHoldExpired
	}
	return nil
}

// CanExpire reports whether the sweeper may act on this reservation. A
// terminal reservation is a no-op, not an error.
func (r *Reservation) CanExpire(now time.Time) bool {
	return r.status == ReservationReserved && r.IsExpiredAt(now)
}

func (t *Ticket) CanCancel() error {
	if t.status == StatusCancelled {
		return ErrAlreadyTerminal
	}
	return nil
}
