package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MrKriegler/go-storefront/internal/core"
)

const publishTimeout = 3 * time.Second

// RabbitPublisher publishes order events to a durable topic exchange.
type RabbitPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishes
	ch       channel
	exchange string
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return conn, nil
}

func NewRabbitPublisher(conn *amqp.Connection, exchange string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newRabbitPublisher(ch, exchange)
}

func newRabbitPublisher(ch channel, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := declareEventsExchange(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, o core.Order) error {
	body, err := json.Marshal(newOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, o.ID, body)
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// LogPublisher records orders in the log when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("component", "events")}
}

func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, o core.Order) error {
	p.log.InfoContext(ctx, "order placed event",
		"routing_key", OrderPlacedRoutingKey,
		"order_id", o.ID,
		"mode", o.Mode,
		"amount", o.Summary.Total.StringFixed(2),
		"currency", o.Summary.Currency,
	)
	return nil
}
