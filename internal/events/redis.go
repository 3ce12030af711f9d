package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const subscriberBuffer = 16

// RedisBus publishes events as JSON on a Redis pub/sub channel
type RedisBus struct {
	client  *redis.Client
	channel string
}

// NewRedisBus creates a bus on top of an existing Redis client.
// The client is owned by the caller.
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	return &RedisBus{client: client, channel: channel}
}

// Publish sends the event to every subscriber of the channel
func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.Kind, err)
	}
	return nil
}

// Subscribe listens on the channel. Slow readers lose events rather than
// blocking the Redis connection.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channel)

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(out)
		for msg := range pubsub.Channel() {
			e, err := decode([]byte(msg.Payload))
			if err != nil {
				slog.Warn("skipping malformed event", "channel", b.channel, "error", err)
				continue
			}
			select {
			case out <- e:
			default:
				slog.Debug("subscriber is slow, dropping event", "kind", e.Kind)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			pubsub.Close()
		case <-done:
		}
	}()

	cancel := func() { pubsub.Close() }
	return out, cancel, nil
}

// Close is a no-op; the Redis client is closed by its owner
func (b *RedisBus) Close() error {
	return nil
}
