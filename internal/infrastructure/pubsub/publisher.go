// Package pubsub forwards committed ticket events to a message broker.
package pubsub

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/shared/config"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// Publisher is an EventPublisher that owns a broker connection.
type Publisher interface {
	usecases.EventPublisher
	Close() error
}

// NewPublisher builds the publisher selected by cfg. A disabled broker yields a no-op publisher.
// redisClient may be nil unless the redis driver is selected.
func NewPublisher(cfg config.BrokerConfig, redisClient *redis.Client, log logger.Interface) (Publisher, error) {
	if !cfg.Enabled {
		log.Infow("ticket event broker disabled")
		return NoopPublisher{}, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case "", "amqp", "rabbitmq":
		return NewAMQPPublisher(cfg.URL, cfg.Exchange, log)
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("broker driver redis requires redis.enabled")
		}
		return NewRedisEventPublisher(redisClient, cfg.Channel, log), nil
	default:
		return nil, fmt.Errorf("unsupported broker driver %q", cfg.Driver)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, payload any) error { return nil }
func (NoopPublisher) Close() error                                                    { return nil }
