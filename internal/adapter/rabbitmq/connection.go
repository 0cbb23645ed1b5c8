package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/YelzhanWeb/orderhub/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrConnectionClosed is returned once Close has been called
var ErrConnectionClosed = errors.New("rabbitmq connection closed")

// Connection is the broker link shared by the publisher and the consumer.
// A lost link can be redialled with Reconnect.
type Connection interface {
	Channel() (Channel, error)
	IsClosed() bool
	Reconnect() error
	Close() error
}

// Channel is the subset of amqp.Channel used for the lifecycle exchange
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	NotifyClose() <-chan *amqp.Error
	Close() error
}

// Queue carries the server generated name of a declared queue
type Queue struct {
	Name string
}

// URL builds the broker address from the config
func URL(cfg config.RabbitMQConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/",
	}
	return u.String()
}

type brokerConn struct {
	addr string
	dial func(addr string) (*amqp.Connection, error)

	mu       sync.RWMutex
	conn     *amqp.Connection
	shutdown bool
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	c := &brokerConn{addr: URL(cfg), dial: amqp.Dial}

	conn, err := c.dial(c.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.conn = conn
	return c, nil
}

func (c *brokerConn) Channel() (Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.shutdown {
		return nil, ErrConnectionClosed
	}
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return &brokerChannel{Channel: ch}, nil
}

func (c *brokerConn) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shutdown || c.conn == nil || c.conn.IsClosed()
}

// Reconnect dials again if the link was lost. A live link is left alone.
func (c *brokerConn) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrConnectionClosed
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return nil
	}

	conn, err := c.dial(c.addr)
	if err != nil {
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}
	c.conn = conn
	return nil
}

func (c *brokerConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shutdown = true
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}

// openChannel opens a channel, redialling once if the link was lost
func openChannel(conn Connection) (Channel, error) {
	ch, err := conn.Channel()
	if err == nil {
		return ch, nil
	}
	if errors.Is(err, ErrConnectionClosed) || !conn.IsClosed() {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if rerr := conn.Reconnect(); rerr != nil {
		return nil, fmt.Errorf("failed to open channel: %w", errors.Join(err, rerr))
	}
	ch, err = conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel after reconnect: %w", err)
	}
	return ch, nil
}

// brokerChannel adapts *amqp.Channel to Channel. Only the methods whose
// signatures differ are wrapped.
type brokerChannel struct {
	*amqp.Channel
}

func (ch *brokerChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	q, err := ch.Channel.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
	if err != nil {
		return Queue{}, err
	}
	return Queue{Name: q.Name}, nil
}

func (ch *brokerChannel) NotifyClose() <-chan *amqp.Error {
	return ch.Channel.NotifyClose(make(chan *amqp.Error, 1))
}
