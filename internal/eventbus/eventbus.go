// Package eventbus wraps a watermill publisher behind a small
// interface so application code never touches message plumbing.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes domain events as JSON messages.
type EventBus interface {
	Publish(topic string, payload any) error
	Subscribe(topic string) (<-chan *message.Message, error)
	Close() error
}

type eventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates an in-process event bus backed by watermill's gochannel
// pub/sub. Messages are delivered to subscribers within the same
// process; a broker-backed implementation can replace this behind the
// same interface.
func New(logger *slog.Logger) EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{pubsub: pubsub, logger: logger}
}

func (b *eventBus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for topic %q: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to topic %q: %w", topic, err)
	}
	return nil
}

func (b *eventBus) Subscribe(topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(context.Background(), topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to topic %q: %w", topic, err)
	}
	return ch, nil
}

func (b *eventBus) Close() error {
	return b.pubsub.Close()
}
