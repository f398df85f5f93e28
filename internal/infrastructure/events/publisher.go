package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"expertise-marketplace/internal/config"
	"expertise-marketplace/internal/domain/expert"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher sends directory events to a durable topic exchange, routed by
// event type.
type AMQPPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	logger   *log.Logger
}

// NewAMQPPublisher returns nil without error when no URI is configured.
func NewAMQPPublisher(cfg config.EventsConfig, logger *log.Logger) (*AMQPPublisher, error) {
	uri := strings.TrimSpace(cfg.AMQPURI)
	if uri == "" {
		if logger != nil {
			logger.Printf("[Events] RabbitMQ not configured, AMQP publishing disabled")
		}
		return nil, nil
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if logger != nil {
		logger.Printf("[Events] RabbitMQ connected | exchange=%s", cfg.Exchange)
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: cfg.Exchange, logger: logger}, nil
}

func (p *AMQPPublisher) Name() string { return "amqp" }

func (p *AMQPPublisher) Publish(ctx context.Context, evt expert.Event) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx, p.exchange, evt.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.OccurredAt,
		Type:         evt.Type,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
