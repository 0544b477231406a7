package readstore

import (
	"context"

	"ticket-hold/internal/infra"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/pgconv"
	"ticket-hold/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type TicketReadStore struct {
	db db.DBTX
}

func NewTicketReadStore(dbtx db.DBTX) *TicketReadStore {
	return &TicketReadStore{db: dbtx}
}

const ticketViewQuery = `
	SELECT t.id, t.zone_id, t.client_id, t.qr_code, t.payment_method, t.status,
	       t.purchased_at, t.created_at, t.updated_at,
	       r.id, r.status, r.expires_at
	FROM tickets t
	LEFT JOIN reservations r ON r.ticket_id = t.id`

func (s *TicketReadStore) FindTicketByID(ctx context.Context, id uuid.UUID) (*queries.TicketView, error) {
	rows, err := s.db.Query(ctx, ticketViewQuery+` WHERE t.id = $1`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find ticket by ID", err)
	}
	defer rows.Close()

	views, err := scanTicketViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, infra.WrapRepoErr("ticket not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return views[0], nil
}

func (s *TicketReadStore) FindTicketsByClient(ctx context.Context, clientID uuid.UUID) ([]*queries.TicketView, error) {
	rows, err := s.db.Query(ctx, ticketViewQuery+` WHERE t.client_id = $1 ORDER BY t.created_at DESC`, clientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find tickets by client", err)
	}
	defer rows.Close()

	return scanTicketViews(rows)
}

func (s *TicketReadStore) FindReservationByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.ticket_id, r.reserved_at, r.expires_at, r.status,
		       t.status, t.zone_id, t.client_id
		FROM reservations r
		JOIN tickets t ON t.id = r.ticket_id
		WHERE r.id = $1`

	var (
		view                  queries.ReservationView
		reservedAt, expiresAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.TicketID, &reservedAt, &expiresAt, &view.Status,
		&view.TicketStatus, &view.ZoneID, &view.ClientID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	view.ReservedAt = pgconv.TimeFromPgtype(reservedAt)
	view.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &view, nil
}

func scanTicketViews(rows pgx.Rows) ([]*queries.TicketView, error) {
	var views []*queries.TicketView
	for rows.Next() {
		var (
			view                              queries.TicketView
			purchasedAt, createdAt, updatedAt pgtype.Timestamptz
			reservationID                     pgtype.UUID
			reservationStatus                 pgtype.Text
			expiresAt                         pgtype.Timestamptz
		)
		err := rows.Scan(
			&view.ID, &view.ZoneID, &view.ClientID, &view.QRCode, &view.PaymentMethod, &view.Status,
			&purchasedAt, &createdAt, &updatedAt,
			&reservationID, &reservationStatus, &expiresAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket view", err)
		}

		view.PurchasedAt = pgconv.TimeFromPgtype(purchasedAt)
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		view.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
		view.ReservationStatus = pgconv.StringPtrFromPgtype(reservationStatus)
		view.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ticket views", err)
	}
	return views, nil
}
