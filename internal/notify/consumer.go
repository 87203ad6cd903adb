package notify

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// bindingKey matches every booking event type.
const bindingKey = "booking.*"

type Handler func(ctx context.Context, e Event) error

type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewConsumer declares a durable queue bound to all booking events on the
// exchange.
func NewConsumer(url, exchange, queue string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Consumer{conn: conn, ch: ch, queue: queue}

	if err := c.declare(exchange); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Consumer) declare(exchange string) error {
	if err := c.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := c.ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.ch.QueueBind(c.queue, bindingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	if err := c.ch.Qos(20, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	return nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			Dispatch(ctx, d, handle)
		}
	}
}

type delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
	body() []byte
}

// Dispatch decodes one message and settles it. Malformed messages are
// dropped; handler failures are requeued.
func Dispatch(ctx context.Context, d amqp.Delivery, handle Handler) {
	settle(ctx, amqpDelivery{d}, handle)
}

type amqpDelivery struct {
	amqp.Delivery
}

func (d amqpDelivery) body() []byte { return d.Body }

func settle(ctx context.Context, d delivery, handle Handler) {
	e, err := Decode(d.body())
	if err != nil {
		slog.Warn("dropping malformed event", "error", err)
		_ = d.Nack(false, false)

		return
	}

	if err := handle(ctx, e); err != nil {
		slog.Error("handling event failed", "type", e.Type, "booking_id", e.BookingID, "error", err)
		_ = d.Nack(false, true)

		return
	}

	_ = d.Ack(false)
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
