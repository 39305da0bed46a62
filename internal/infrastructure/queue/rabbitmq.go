package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pubfit/membership-api/internal/core/domain"
)

// DecisionQueue receives one message per approved or rejected registration.
const DecisionQueue = "registration.decided"

// Connection owns the AMQP connection and the channel used for publishing.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials the broker and declares the durable decision queue.
func Connect(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(DecisionQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &Connection{conn: conn, ch: ch}, nil
}

// Channel returns the publishing channel.
func (c *Connection) Channel() *amqp.Channel {
	return c.ch
}

func (c *Connection) Close() error {
	_ = c.ch.Close()
	return c.conn.Close()
}

// NoopNotifier drops decisions. Used when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) PublishDecision(context.Context, domain.RegistrationDecision) error { return nil }
