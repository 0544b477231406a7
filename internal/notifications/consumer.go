package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"ticket-hold/internal/events"
	"ticket-hold/internal/infra/messaging"
	"ticket-hold/internal/infra/repository"
	"ticket-hold/internal/pkg/clock"
	"ticket-hold/internal/pkg/config"
	"ticket-hold/internal/pkg/errs"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
)

// Consumer turns lifecycle events from the notification stream into
// persisted notification rows. Messages that keep failing are shunted to
// the poison topic instead of blocking the stream.
type Consumer struct {
	router *message.Router
}

func NewConsumer(
	cfg config.MessagingConfig,
	client redis.UniversalClient,
	repo *repository.NotificationRepository,
	clk clock.Clock,
	logger *slog.Logger,
) (*Consumer, error) {
	wmLogger := messaging.NewWatermillLogger(logger)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create message router")
	}

	poisonPublisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create poison publisher")
	}
	poison, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonTopic)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create poison queue middleware")
	}

	router.AddMiddleware(
		poison,
		middleware.Retry{
			MaxRetries:      5,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: cfg.ConsumerGroup,
	}, wmLogger)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create redis stream subscriber")
	}

	handler := &lifecycleHandler{repo: repo, clock: clk}
	router.AddNoPublisherHandler(
		"persist-lifecycle-notification",
		cfg.NotificationTopic,
		subscriber,
		handler.Handle,
	)

	return &Consumer{router: router}, nil
}

// Run blocks until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running unblocks once the router's subscribers are consuming.
func (c *Consumer) Running() <-chan struct{} {
	return c.router.Running()
}

func (c *Consumer) Close() error {
	return c.router.Close()
}

type lifecycleHandler struct {
	repo  *repository.NotificationRepository
	clock clock.Clock
}

func (h *lifecycleHandler) Handle(msg *message.Message) error {
	var event events.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		// Malformed payloads never become parseable; let the poison queue
		// capture them without retries.
		return errs.Wrap(err, "failed to unmarshal lifecycle event")
	}

	return h.repo.Create(msg.Context(), nil, event.Type, notificationMessage(event), h.clock.Now())
}

func notificationMessage(event events.LifecycleEvent) string {
	switch {
	case event.ReservationID != nil:
		return fmt.Sprintf("reservation %s is now %s", event.ReservationID, event.Status)
	case event.TicketID != nil:
		return fmt.Sprintf("ticket %s is now %s", event.TicketID, event.Status)
	default:
		return fmt.Sprintf("lifecycle event %s", event.Type)
	}
}
