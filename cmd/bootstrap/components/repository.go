package components

import (
	"ticket-hold/internal/infra/db"
	"ticket-hold/internal/infra/readstore"
	"ticket-hold/internal/infra/repository"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repository.NewTicketRepository,
			fx.As(new(commands.TicketRepository)),
		),
		repository.NewNotificationRepository,
		fx.Annotate(
			readstore.NewTicketReadStore,
			fx.As(new(queries.TicketReadStore)),
		),
		fx.Annotate(
			readstore.NewZoneReadStore,
			fx.As(new(queries.ZoneReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
