package components

import (
	"ticket-hold/internal/pkg/clock"
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(cfg config.Config) config.HoldConfig {
			return cfg.Hold
		},
		queries.NewTicketQueries,
		commands.NewTicketCommands,
	),
)
