package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
}

// connectFunc opens a channel with the exchange declared and returns a func
// that closes the channel and its connection.
type connectFunc func() (channel, func() error, error)

// Publisher sends events to a durable RabbitMQ topic exchange using the
// event type as routing key. A closed channel is redialed on the next Notify.
type Publisher struct {
	mu       sync.Mutex
	connect  connectFunc
	ch       channel
	closeFn  func() error
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{
		exchange: exchange,
		connect: func() (channel, func() error, error) {
			return dialExchange(url, exchange)
		},
	}

	if err := p.reconnect(); err != nil {
		return nil, err
	}

	return p, nil
}

func dialExchange(url, exchange string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}

	return ch, closeFn, nil
}

// reconnect must be called with mu held, or before the publisher is shared.
func (p *Publisher) reconnect() error {
	p.drop()

	ch, closeFn, err := p.connect()
	if err != nil {
		return err
	}

	p.ch, p.closeFn = ch, closeFn

	return nil
}

func (p *Publisher) drop() {
	if p.closeFn != nil {
		_ = p.closeFn()
	}

	p.ch, p.closeFn = nil, nil
}

func (p *Publisher) Notify(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		slog.Info("reconnecting to rabbitmq", "exchange", p.exchange)

		if err := p.reconnect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    e.BookingID.String(),
		Body:         body,
	})
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.drop()
		}

		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closeFn == nil {
		return nil
	}

	err := p.closeFn()
	p.ch, p.closeFn = nil, nil

	return err
}
