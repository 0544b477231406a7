package commands

import (
	"context"
	"log/slog"
	"time"

	"ticket-hold/internal/domain/ticket"
	"ticket-hold/internal/events"
	"ticket-hold/internal/infra"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/monitoring"
	"ticket-hold/internal/pkg/clock"
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/pkg/errs"
	"ticket-hold/internal/pkg/qr"
	"ticket-hold/internal/usecase/queries"
	"ticket-hold/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrZoneNotFound        = errs.New("zone not found")
	ErrTicketNotFound      = errs.New("ticket not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrCapacityExceeded    = errs.New("zone capacity exceeded")
	ErrAlreadyTerminal     = errs.New("already in a terminal state")
	ErrHoldExpired         = errs.New("reservation hold has expired")
	ErrDomainValidation    = errs.New("domain validation error")
	ErrStorageFailure      = errs.New("storage operation failed")
)

// sweepBatchSize bounds how many holds one sweep reclaims; leftovers wait for
// the next tick.
const sweepBatchSize = 500

type TicketCommands interface {
	Purchase(ctx context.Context, zoneID, clientID uuid.UUID, method ticket.PaymentMethod) (*queries.TicketView, error)
	Reserve(ctx context.Context, zoneID, clientID uuid.UUID) (*queries.ReservationView, error)
	Confirm(ctx context.Context, reservationID uuid.UUID) (*queries.ReservationView, error)
	CancelTicket(ctx context.Context, ticketID uuid.UUID) error
	CancelReservation(ctx context.Context, reservationID uuid.UUID) error
	ExpireOne(ctx context.Context, reservationID uuid.UUID) (bool, error)
	SweepExpired(ctx context.Context) (int, error)
}

type ticketCommandsImpl struct {
	repo      TicketRepository
	publisher EventPublisher
	queries   queries.TicketQueries
	pool      *pgxpool.Pool
	clock     clock.Clock
	hold      config.HoldConfig
}

func NewTicketCommands(
	repo TicketRepository,
	publisher EventPublisher,
	ticketQueries queries.TicketQueries,
	pool *pgxpool.Pool,
	clk clock.Clock,
	hold config.HoldConfig,
) TicketCommands {
	return &ticketCommandsImpl{
		repo:      repo,
		publisher: publisher,
		queries:   ticketQueries,
		pool:      pool,
		clock:     clk,
		hold:      hold,
	}
}

// Purchase creates a paid ticket directly, with no reservation row. The
// capacity check and the insert share one transaction and the zone row lock,
// so two concurrent purchases for the last seat cannot both succeed.
func (c *ticketCommandsImpl) Purchase(ctx context.Context, zoneID, clientID uuid.UUID, method ticket.PaymentMethod) (_ *queries.TicketView, err error) {
	defer func() { monitoring.RecordOperation("purchase", err) }()

	qrCode, err := qr.NewToken()
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	now := c.clock.Now()
	t, err := ticket.NewPurchase(zoneID, clientID, method, qrCode, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	_, err = shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (struct{}, error) {
		if err := c.checkCapacity(ctx, tx, zoneID); err != nil {
			return struct{}{}, err
		}
		if err := c.repo.InsertTicket(ctx, tx, t); err != nil {
			return struct{}{}, errs.Mark(err, ErrStorageFailure)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.NewTicketEvent(events.TypeTicketCreated, t.ID(), t.Status().String(), now))

	return c.queries.GetTicket(ctx, t.ID())
}

// Reserve creates a pending ticket with a time-boxed hold. Both rows commit
// atomically; the hold consumes zone capacity until confirmed, cancelled or
// swept.
func (c *ticketCommandsImpl) Reserve(ctx context.Context, zoneID, clientID uuid.UUID) (_ *queries.ReservationView, err error) {
	defer func() { monitoring.RecordOperation("reserve", err) }()

	qrCode, err := qr.NewToken()
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	now := c.clock.Now()
	t, res := ticket.NewHold(zoneID, clientID, qrCode, now, c.hold.Duration)

	_, err = shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (struct{}, error) {
		if err := c.checkCapacity(ctx, tx, zoneID); err != nil {
			return struct{}{}, err
		}
		if err := c.repo.InsertTicket(ctx, tx, t); err != nil {
			return struct{}{}, errs.Mark(err, ErrStorageFailure)
		}
		if err := c.repo.InsertReservation(ctx, tx, res); err != nil {
			return struct{}{}, errs.Mark(err, ErrStorageFailure)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.NewReservationEvent(events.TypeReservationCreated, res.ID(), t.ID(), res.Status().String(), now))

	return c.queries.GetReservation(ctx, res.ID())
}

// Confirm settles a live hold: reservation to confirmed, ticket to paid. The
// transition is a conditional update keyed on "still reserved and not past
// expiration", which is the tie-break against a concurrent expiry sweep.
func (c *ticketCommandsImpl) Confirm(ctx context.Context, reservationID uuid.UUID) (_ *queries.ReservationView, err error) {
	defer func() { monitoring.RecordOperation("confirm", err) }()

	now := c.clock.Now()

	ticketID, err := shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (uuid.UUID, error) {
		ticketID, ok, err := c.repo.ConfirmReservation(ctx, tx, reservationID, now)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrStorageFailure)
		}
		if !ok {
			return uuid.Nil, c.classifyConfirmFailure(ctx, tx, reservationID, now)
		}

		paid, err := c.repo.MarkTicketPaid(ctx, tx, ticketID)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrStorageFailure)
		}
		if !paid {
			// A reserved reservation implies a pending ticket; anything else
			// means the aggregate is corrupt, so refuse to commit.
			return uuid.Nil, errs.Mark(errs.New("confirmed reservation had no pending ticket"), ErrStorageFailure)
		}
		return ticketID, nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.NewReservationEvent(events.TypeReservationConfirmed, reservationID, ticketID, ticket.ReservationConfirmed.String(), now))

	return c.queries.GetReservation(ctx, reservationID)
}

// CancelTicket cancels a non-terminal ticket and, when a live hold exists,
// moves it to the cancelled terminal state. Both release held capacity by
// dropping out of the qualifying count.
func (c *ticketCommandsImpl) CancelTicket(ctx context.Context, ticketID uuid.UUID) (err error) {
	defer func() { monitoring.RecordOperation("cancel_ticket", err) }()

	now := c.clock.Now()

	res, err := shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (*ticket.Reservation, error) {
		t, err := c.repo.FindTicket(ctx, tx, ticketID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrTicketNotFound
			}
			return nil, errs.Mark(err, ErrStorageFailure)
		}
		if err := t.CanCancel(); err != nil {
			return nil, errs.Mark(err, ErrAlreadyTerminal)
		}

		res, err := c.repo.FindReservationByTicket(ctx, tx, ticketID)
		if err != nil {
			return nil, errs.Mark(err, ErrStorageFailure)
		}
		if res != nil && res.Status().IsTerminal() {
			return nil, ErrAlreadyTerminal
		}

		return res, c.cancelPair(ctx, tx, ticketID, res)
	})
	if err != nil {
		return err
	}

	if res != nil {
		c.publish(ctx, events.NewReservationEvent(events.TypeReservationCancelled, res.ID(), ticketID, ticket.ReservationCancelled.String(), now))
	} else {
		c.publish(ctx, events.NewTicketEvent(events.TypeTicketCancelled, ticketID, ticket.StatusCancelled.String(), now))
	}
	return nil
}

// CancelReservation cancels through the reservation id instead of the ticket id.
func (c *ticketCommandsImpl) CancelReservation(ctx context.Context, reservationID uuid.UUID) (err error) {
	defer func() { monitoring.RecordOperation("cancel_reservation", err) }()

	now := c.clock.Now()

	ticketID, err := shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (uuid.UUID, error) {
		res, err := c.repo.FindReservation(ctx, tx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return uuid.Nil, ErrReservationNotFound
			}
			return uuid.Nil, errs.Mark(err, ErrStorageFailure)
		}
		if res.Status().IsTerminal() {
			return uuid.Nil, ErrAlreadyTerminal
		}

		return res.TicketID(), c.cancelPair(ctx, tx, res.TicketID(), res)
	})
	if err != nil {
		return err
	}

	c.publish(ctx, events.NewReservationEvent(events.TypeReservationCancelled, reservationID, ticketID, ticket.ReservationCancelled.String(), now))
	return nil
}

// ExpireOne reclaims a single overdue hold. It is idempotent: a terminal or
// still-live reservation is a no-op, not an error, so overlapping sweeps and
// racing confirms are safe.
func (c *ticketCommandsImpl) ExpireOne(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	now := c.clock.Now()

	type expireResult struct {
		ticketID uuid.UUID
		acted    bool
	}
	result, err := shared.WithDefaultRetry(ctx, c.pool, func(tx db.DBTX) (expireResult, error) {
		ticketID, ok, err := c.repo.ExpireReservation(ctx, tx, reservationID, now)
		if err != nil {
			return expireResult{}, errs.Mark(err, ErrStorageFailure)
		}
		if !ok {
			// Distinguish "never existed" from "nothing to do".
			res, err := c.repo.FindReservation(ctx, tx, reservationID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return expireResult{}, ErrReservationNotFound
				}
				return expireResult{}, errs.Mark(err, ErrStorageFailure)
			}
			if res.CanExpire(now) {
				// The conditional update and the guard check the same
				// predicate; disagreement means the row is corrupt.
				return expireResult{}, errs.Mark(errs.New("due reservation rejected conditional expiry"), ErrStorageFailure)
			}
			return expireResult{}, nil
		}

		cancelled, err := c.repo.CancelTicket(ctx, tx, ticketID)
		if err != nil {
			return expireResult{}, errs.Mark(err, ErrStorageFailure)
		}
		if !cancelled {
			return expireResult{}, errs.Mark(errs.New("expired reservation had no cancellable ticket"), ErrStorageFailure)
		}
		return expireResult{ticketID: ticketID, acted: true}, nil
	})
	if err != nil {
		return false, err
	}

	if result.acted {
		c.publish(ctx, events.NewReservationEvent(events.TypeReservationExpired, reservationID, result.ticketID, ticket.ReservationExpired.String(), now))
	}
	return result.acted, nil
}

// SweepExpired runs one sweep: collect overdue holds, expire each one
// individually. Per-reservation failures are logged and skipped so a single
// bad row cannot stall the sweeper.
func (c *ticketCommandsImpl) SweepExpired(ctx context.Context) (int, error) {
	ids, err := c.repo.ListExpiredReservationIDs(ctx, c.pool, c.clock.Now(), sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, ErrStorageFailure)
	}

	expired := 0
	for _, id := range ids {
		acted, err := c.ExpireOne(ctx, id)
		if err != nil {
			slog.Error("failed to expire reservation", "reservation_id", id, "error", err)
			continue
		}
		if acted {
			expired++
		}
	}

	monitoring.RecordSweep(expired)
	return expired, nil
}

func (c *ticketCommandsImpl) checkCapacity(ctx context.Context, tx db.DBTX, zoneID uuid.UUID) error {
	zone, err := c.repo.LockZone(ctx, tx, zoneID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrZoneNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}

	active, err := c.repo.CountActive(ctx, tx, zoneID, c.clock.Now())
	if err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	if active+1 > zone.Capacity {
		return ErrCapacityExceeded
	}
	return nil
}

func (c *ticketCommandsImpl) cancelPair(ctx context.Context, tx db.DBTX, ticketID uuid.UUID, res *ticket.Reservation) error {
	ok, err := c.repo.CancelTicket(ctx, tx, ticketID)
	if err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	if !ok {
		// Lost a race against another cancel or the sweeper.
		return ErrAlreadyTerminal
	}

	if res != nil {
		ok, err := c.repo.CancelReservation(ctx, tx, res.ID())
		if err != nil {
			return errs.Mark(err, ErrStorageFailure)
		}
		if !ok {
			return ErrAlreadyTerminal
		}
	}
	return nil
}

// classifyConfirmFailure turns a zero-row confirm update into the caller-facing
// reason: missing, already settled, or past its expiration.
func (c *ticketCommandsImpl) classifyConfirmFailure(ctx context.Context, tx db.DBTX, reservationID uuid.UUID, now time.Time) error {
	res, err := c.repo.FindReservation(ctx, tx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}
	switch res.CanConfirm(now) {
	case ticket.ErrAlreadyTerminal:
		return ErrAlreadyTerminal
	case ticket.ErrHoldExpired:
		return ErrHoldExpired
	}
	return errs.Mark(errs.New("live reservation rejected conditional confirm"), ErrStorageFailure)
}

func (c *ticketCommandsImpl) publish(ctx context.Context, event events.LifecycleEvent) {
	err := c.publisher.Publish(ctx, event)
	monitoring.RecordPublish(event.Type, err)
	if err != nil {
		// Best-effort: the transaction already committed, the caller's
		// operation succeeded regardless of delivery.
		slog.Warn("failed to publish lifecycle event",
			"type", event.Type,
			"error", err)
	}
}
