package eventbus

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Channel subset of *amqp.Channel used by the publisher
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel to the broker within ctx; the returned closer releases the connection
type Dialer func(ctx context.Context, url string) (Channel, func() error, error)
