package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange       = "storefront.events"
	OrderPlacedRoutingKey = "order.placed.v1"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

func declareEventsExchange(ch channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
}
