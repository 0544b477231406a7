package repository

import (
	"context"
	"time"

	"ticket-hold/internal/domain/ticket"
	"ticket-hold/internal/infra"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type ZoneRow struct {
	ID       uuid.UUID
	Capacity int
	Price    decimal.Decimal
}

type TicketRepository struct{}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{}
}

// LockZone acquires a row lock on the zone for the duration of the enclosing
// transaction. Every capacity-consuming insert goes through this lock, so two
// concurrent purchases for the last seat serialize here.
func (r *TicketRepository) LockZone(ctx context.Context, tx db.DBTX, zoneID uuid.UUID) (*ZoneRow, error) {
	const query = `
		SELECT id, capacity, price
		FROM zones
		WHERE id = $1
		FOR UPDATE`

	var (
		row   ZoneRow
		price pgtype.Numeric
	)
	err := tx.QueryRow(ctx, query, zoneID).Scan(&row.ID, &row.Capacity, &price)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("zone not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock zone", err)
	}

	row.Price, err = pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert zone price", err)
	}

	return &row, nil
}

// CountActive returns the number of seats the zone currently has committed or
// held: paid tickets plus pending tickets whose hold is still live. The count
// is derived from the authoritative rows inside the caller's transaction, so
// it cannot drift from them.
func (r *TicketRepository) CountActive(ctx context.Context, tx db.DBTX, zoneID uuid.UUID, now time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM tickets t
		LEFT JOIN reservations res ON res.ticket_id = t.id
		WHERE t.zone_id = $1
		  AND (t.status = 'paid'
		       OR (t.status = 'pending' AND res.status = 'reserved' AND res.expires_at > $2))`

	var count int
	if err := tx.QueryRow(ctx, query, zoneID, pgconv.TimeToPgtype(now)).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active tickets", err)
	}
	return count, nil
}

func (r *TicketRepository) InsertTicket(ctx context.Context, tx db.DBTX, t *ticket.Ticket) error {
	const query = `
		INSERT INTO tickets (id, zone_id, client_id, qr_code, payment_method, status, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		t.ID(), t.ZoneID(), t.ClientID(), t.QRCode(),
		t.PaymentMethod().String(), t.Status().String(), pgconv.TimeToPgtype(t.PurchasedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert ticket", err)
	}
	return nil
}

func (r *TicketRepository) InsertReservation(ctx context.Context, tx db.DBTX, res *ticket.Reservation) error {
	const query = `
		INSERT INTO reservations (id, ticket_id, reserved_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		res.ID(), res.TicketID(),
		pgconv.TimeToPgtype(res.ReservedAt()), pgconv.TimeToPgtype(res.ExpiresAt()),
		res.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

func (r *TicketRepository) FindReservation(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ticket.Reservation, error) {
	const query = `
		SELECT id, ticket_id, reserved_at, expires_at, status
		FROM reservations
		WHERE id = $1`

	return scanReservation(tx.QueryRow(ctx, query, id))
}

func (r *TicketRepository) FindReservationByTicket(ctx context.Context, tx db.DBTX, ticketID uuid.UUID) (*ticket.Reservation, error) {
	const query = `
		SELECT id, ticket_id, reserved_at, expires_at, status
		FROM reservations
		WHERE ticket_id = $1`

	res, err := scanReservation(tx.QueryRow(ctx, query, ticketID))
	if err != nil {
		// A ticket without a reservation row is a direct purchase, not an error.
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *TicketRepository) FindTicket(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ticket.Ticket, error) {
	const query = `
		SELECT id, zone_id, client_id, qr_code, payment_method, status, purchased_at, created_at, updated_at
		FROM tickets
		WHERE id = $1`

	var (
		ticketID, zoneID, clientID        uuid.UUID
		qrCode, method, status            string
		purchasedAt, createdAt, updatedAt pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx, query, id).Scan(
		&ticketID, &zoneID, &clientID, &qrCode, &method, &status,
		&purchasedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket", err)
	}

	return ticket.ReconstructTicket(
		ticketID, zoneID, clientID, qrCode,
		ticket.PaymentMethod(method), ticket.Status(status),
		pgconv.TimeFromPgtype(purchasedAt),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// ConfirmReservation performs the conditional confirm transition. The WHERE
// clause is the tie-break against a concurrent expiry sweep: whichever side
// updates first wins, the loser matches zero rows.
func (r *TicketRepository) ConfirmReservation(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (uuid.UUID, bool, error) {
	const query = `
		UPDATE reservations
		SET status = 'confirmed', updated_at = now()
		WHERE id = $1 AND status = 'reserved' AND expires_at > $2
		RETURNING ticket_id`

	var ticketID uuid.UUID
	err := tx.QueryRow(ctx, query, id, pgconv.TimeToPgtype(now)).Scan(&ticketID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, infra.WrapRepoErr("failed to confirm reservation", err)
	}
	return ticketID, true, nil
}

// ExpireReservation performs the conditional expiry transition. Zero matched
// rows means another caller got there first or the hold is still live; both
// are no-ops for the sweeper.
func (r *TicketRepository) ExpireReservation(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (uuid.UUID, bool, error) {
	const query = `
		UPDATE reservations
		SET status = 'expired', updated_at = now()
		WHERE id = $1 AND status = 'reserved' AND expires_at <= $2
		RETURNING ticket_id`

	var ticketID uuid.UUID
	err := tx.QueryRow(ctx, query, id, pgconv.TimeToPgtype(now)).Scan(&ticketID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, infra.WrapRepoErr("failed to expire reservation", err)
	}
	return ticketID, true, nil
}

// CancelReservation moves a live hold to the cancelled terminal state,
// conditionally like every other transition.
func (r *TicketRepository) CancelReservation(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE reservations
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'reserved'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel reservation", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TicketRepository) MarkTicketPaid(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE tickets
		SET status = 'paid', updated_at = now()
		WHERE id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark ticket paid", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TicketRepository) CancelTicket(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE tickets
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'paid')`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel ticket", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListExpiredReservationIDs feeds one sweep: live holds whose expiration has
// passed. The limit bounds a single sweep; leftovers are picked up next tick.
func (r *TicketRepository) ListExpiredReservationIDs(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]uuid.UUID, error) {
	const query = `
		SELECT id
		FROM reservations
		WHERE status = 'reserved' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := tx.Query(ctx, query, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired reservations", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired reservations", err)
	}
	return ids, nil
}

func scanReservation(row interface{ Scan(dest ...any) error }) (*ticket.Reservation, error) {
	var (
		id, ticketID          uuid.UUID
		reservedAt, expiresAt pgtype.Timestamptz
		status                string
	)
	err := row.Scan(&id, &ticketID, &reservedAt, &expiresAt, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation", err)
	}

	return ticket.ReconstructReservation(
		id, ticketID,
		pgconv.TimeFromPgtype(reservedAt), pgconv.TimeFromPgtype(expiresAt),
		ticket.ReservationStatus(status),
	), nil
}
