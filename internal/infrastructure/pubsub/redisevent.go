package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const defaultTicketEventChannel = "supportdesk:ticket:events"

// Envelope wraps a payload with its routing key on the redis channel.
type Envelope struct {
	RoutingKey string          `json:"routing_key"`
	Payload    json.RawMessage `json:"payload"`
}

// RedisEventPublisher publishes ticket events on a redis pub/sub channel.
type RedisEventPublisher struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisEventPublisher(client *redis.Client, channel string, logger logger.Interface) *RedisEventPublisher {
	if channel == "" {
		channel = defaultTicketEventChannel
	}
	return &RedisEventPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *RedisEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	data, err := encodeEnvelope(routingKey, payload)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish ticket event",
			"channel", b.channel,
			"routing_key", routingKey,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("ticket event published", "channel", b.channel, "routing_key", routingKey)
	return nil
}

// Close is a no-op; the redis client is shared and closed by its owner.
func (b *RedisEventPublisher) Close() error { return nil }

func encodeEnvelope(routingKey string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	data, err := json.Marshal(Envelope{RoutingKey: routingKey, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}
