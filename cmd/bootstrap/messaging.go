package bootstrap

import (
	"context"
	"log/slog"

	"ticket-hold/internal/infra/messaging"
	"ticket-hold/internal/infra/repository"
	"ticket-hold/internal/notifications"
	"ticket-hold/internal/pkg/clock"
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		fx.Annotate(
			NewLifecyclePublisher,
			fx.As(new(commands.EventPublisher)),
		),
		NewNotificationConsumer,
	),
	fx.Invoke(
		runNotificationConsumer,
	),
)

func NewLifecyclePublisher(lc fx.Lifecycle, cfg config.Config, client redis.UniversalClient, logger *slog.Logger) (*messaging.LifecyclePublisher, error) {
	publisher, err := messaging.NewLifecyclePublisher(client, cfg.Messaging.NotificationTopic, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func NewNotificationConsumer(cfg config.Config, client redis.UniversalClient, repo *repository.NotificationRepository, clk clock.Clock, logger *slog.Logger) (*notifications.Consumer, error) {
	return notifications.NewConsumer(cfg.Messaging, client, repo, clk, logger)
}

func runNotificationConsumer(lc fx.Lifecycle, consumer *notifications.Consumer, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := consumer.Run(ctx); err != nil {
					logger.Error("notification consumer stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return consumer.Close()
		},
	})
}
