package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

// DefaultRetryDelay is the pause between reconnect attempts
const DefaultRetryDelay = 5 * time.Second

// prefetch bounds unacknowledged deliveries per gateway
const prefetch = 32

type consumer struct {
	conn       Connection
	exchange   string
	logger     logger.Logger
	retryDelay time.Duration
}

// NewConsumer consumes lifecycle messages through a private queue bound to the
// fanout exchange, so every gateway instance sees every message.
func NewConsumer(conn Connection, exchange string, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, exchange: exchange, logger: logger, retryDelay: DefaultRetryDelay}
}

func (c *consumer) ConsumeLifecycle(ctx context.Context, handler interfaces.LifecycleHandler) error {
	for {
		err := c.consume(ctx, handler)

		// Если контекст отменен - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Error("rabbitmq_consumer_disconnected",
			fmt.Sprintf("Lifecycle consumer disconnected, reconnecting in %s", c.retryDelay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("rabbitmq_reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
				continue
			}
			c.logger.Info("rabbitmq_reconnected", "Reconnected to RabbitMQ", "", nil)
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.LifecycleHandler) error {
	ch, err := openChannel(c.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	// Отслеживаем закрытие канала
	closeChan := ch.NotifyClose()

	if err := declareExchange(ch, c.exchange); err != nil {
		return err
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	// Временная эксклюзивная очередь
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("rabbitmq_consuming", "Consuming lifecycle messages", "", map[string]interface{}{
		"exchange": c.exchange,
		"queue":    q.Name,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errors.New("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// Битые сообщения не переотправляем
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}
