package readstore

import (
	"context"

	"ticket-hold/internal/infra"
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/pgconv"
	"ticket-hold/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ZoneReadStore reads the zones table the events service owns. This service
// never writes it.
type ZoneReadStore struct {
	db db.DBTX
}

func NewZoneReadStore(dbtx db.DBTX) *ZoneReadStore {
	return &ZoneReadStore{db: dbtx}
}

func (s *ZoneReadStore) FindZoneByID(ctx context.Context, id uuid.UUID) (*queries.ZoneView, error) {
	const query = `
		SELECT id, name, capacity, price
		FROM zones
		WHERE id = $1`

	var (
		view  queries.ZoneView
		price pgtype.Numeric
	)
	err := s.db.QueryRow(ctx, query, id).Scan(&view.ID, &view.Name, &view.Capacity, &price)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("zone not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find zone by ID", err)
	}

	view.Price, err = pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert zone price", err)
	}

	return &view, nil
}
