package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"ticket-hold/internal/events"
	"ticket-hold/internal/pkg/errs"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// LifecyclePublisher pushes ticket lifecycle events onto the notification
// stream consumed by the notifications service.
type LifecyclePublisher struct {
	publisher message.Publisher
	topic     string
}

func NewLifecyclePublisher(client redis.UniversalClient, topic string, logger *slog.Logger) (*LifecyclePublisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, NewWatermillLogger(logger))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create redis stream publisher")
	}

	return &LifecyclePublisher{publisher: publisher, topic: topic}, nil
}

func (p *LifecyclePublisher) Publish(ctx context.Context, event events.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal lifecycle event")
	}

	msg := message.NewMessage(event.Header.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.Type)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return errs.Wrap(err, "failed to publish lifecycle event")
	}
	return nil
}

func (p *LifecyclePublisher) Close() error {
	return p.publisher.Close()
}
