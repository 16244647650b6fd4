package events

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshop-micro/services/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type declaredExchange struct {
	name    string
	kind    string
	durable bool
}

type fakeChannel struct {
	mu         sync.Mutex
	declares   []declaredExchange
	keys       []string
	messages   []amqp.Publishing
	publishErr error
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.declares = append(c.declares, declaredExchange{name: name, kind: kind, durable: durable})
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.messages = append(c.messages, msg)
	return nil
}

type fakeConn struct {
	mu     sync.Mutex
	ch     *fakeChannel
	closed bool
}

func (c *fakeConn) Channel() (Channel, error) { return c.ch, nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeBroker struct {
	mu      sync.Mutex
	dials   int
	dialErr error
	delay   time.Duration
	conns   []*fakeConn
}

func (b *fakeBroker) dial(string) (Connection, error) {
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if b.dialErr != nil {
		return nil, b.dialErr
	}
	conn := &fakeConn{ch: &fakeChannel{}}
	b.conns = append(b.conns, conn)
	return conn, nil
}

func (b *fakeBroker) dialCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

func (b *fakeBroker) lastConn() *fakeConn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conns[len(b.conns)-1]
}

func newTestPublisher(b *fakeBroker) *Publisher {
	p := NewPublisher("amqp://test", "stock.exchange")
	p.dial = b.dial
	return p
}

func TestPublishConnectsLazily(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	err := p.Publish(context.Background(), "stock.confirm", map[string]int{"n": 1})
	require.NoError(t, err)

	assert.Equal(t, 1, broker.dialCount())
	ch := broker.lastConn().ch
	require.Len(t, ch.declares, 1)
	assert.Equal(t, declaredExchange{name: "stock.exchange", kind: "topic", durable: true}, ch.declares[0])

	require.Len(t, ch.messages, 1)
	msg := ch.messages[0]
	assert.Equal(t, "stock.confirm", ch.keys[0])
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.NotEmpty(t, msg.MessageId)
	assert.JSONEq(t, `{"n":1}`, string(msg.Body))
}

func TestPublishReusesConnection(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	require.NoError(t, p.Publish(context.Background(), "a", 1))
	require.NoError(t, p.Publish(context.Background(), "b", 2))
	assert.Equal(t, 1, broker.dialCount())
}

func TestPublishReconnectsOnceAfterDrop(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	require.NoError(t, p.Publish(context.Background(), "a", 1))

	// Broker drops the connection between calls.
	broker.lastConn().closed = true

	require.NoError(t, p.Publish(context.Background(), "b", 2))
	assert.Equal(t, 2, broker.dialCount())
	assert.Len(t, broker.lastConn().ch.messages, 1)
}

func TestPublishFailureDropsConnection(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	require.NoError(t, p.Connect())
	first := broker.lastConn()
	first.ch.publishErr = errors.New("channel closed")

	err := p.Publish(context.Background(), "a", 1)
	require.Error(t, err)
	assert.True(t, first.IsClosed())

	// The next attempt starts from a fresh dial and succeeds.
	require.NoError(t, p.Publish(context.Background(), "b", 2))
	assert.Equal(t, 2, broker.dialCount())
}

func TestDialFailureStaysDisconnected(t *testing.T) {
	broker := &fakeBroker{dialErr: errors.New("connection refused")}
	p := newTestPublisher(broker)

	require.Error(t, p.Publish(context.Background(), "a", 1))
	assert.Equal(t, 1, broker.dialCount())

	broker.dialErr = nil
	require.NoError(t, p.Publish(context.Background(), "a", 1))
	assert.Equal(t, 2, broker.dialCount())
}

func TestConnectIsIdempotent(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	require.NoError(t, p.Connect())
	require.NoError(t, p.Connect())
	assert.Equal(t, 1, broker.dialCount())
}

func TestCloseIsIdempotent(t *testing.T) {
	broker := &fakeBroker{}
	p := newTestPublisher(broker)

	require.NoError(t, p.Close())

	require.NoError(t, p.Connect())
	require.NoError(t, p.Close())
	assert.True(t, broker.lastConn().IsClosed())
	require.NoError(t, p.Close())

	// Publishing after Close reconnects.
	require.NoError(t, p.Publish(context.Background(), "a", 1))
	assert.Equal(t, 2, broker.dialCount())
}

func TestConcurrentFirstPublishConnectsOnce(t *testing.T) {
	broker := &fakeBroker{delay: 5 * time.Millisecond}
	p := newTestPublisher(broker)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), "a", 1))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, broker.dialCount())
}
