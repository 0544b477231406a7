package bootstrap

import (
	"context"

	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/scheduler"
	"ticket-hold/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewExpiryScheduler,
	),
	fx.Invoke(
		runExpiryScheduler,
	),
)

func NewExpiryScheduler(cfg config.Config, ticketCommands commands.TicketCommands) *scheduler.ExpiryScheduler {
	return scheduler.NewExpiryScheduler(ticketCommands, cfg.Hold.SweepInterval)
}

func runExpiryScheduler(lc fx.Lifecycle, s *scheduler.ExpiryScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
