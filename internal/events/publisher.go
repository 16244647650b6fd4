package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/eshop-micro/services/internal/logger"
)

// Connection and Channel cover the slice of amqp091 the publisher touches.
// *amqp.Channel satisfies Channel as-is; the dial seam lets tests swap the
// broker out.
type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
}

type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type DialFunc func(url string) (Connection, error)

type amqpConnection struct {
	*amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func amqpDial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{Connection: conn}, nil
}

// Publisher writes JSON messages to a durable topic exchange. The connection
// is established lazily on first use and re-established on the next publish
// after a failure; nothing retries in the background. One Publisher is shared
// per process, so the connect-if-needed check and the publish itself run
// under a single mutex.
type Publisher struct {
	url      string
	exchange string
	dial     DialFunc

	mu   sync.Mutex
	conn Connection
	ch   Channel
}

func NewPublisher(url, exchange string) *Publisher {
	return &Publisher{url: url, exchange: exchange, dial: amqpDial}
}

// Connect dials the broker and declares the exchange. No-op when already
// connected.
func (p *Publisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectLocked()
}

func (p *Publisher) connectLocked() error {
	if p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.conn, p.ch = nil, nil

	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	// Idempotent declare: safe if the exchange already exists.
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare exchange %q: %w", p.exchange, err)
	}

	p.conn, p.ch = conn, ch
	logger.Info("broker connected", "exchange", p.exchange)
	return nil
}

// Publish serializes payload as JSON and publishes it under routingKey with
// persistent delivery. A failed publish drops the connection so the next
// call starts from a fresh dial.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connectLocked(); err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.dropLocked()
		return fmt.Errorf("publish %q: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) dropLocked() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Close releases the connection. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	return err
}
