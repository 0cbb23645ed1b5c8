package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/domain"
)

// Типы событий жизненного цикла заказа
const (
	LifecycleOrderCreated  = "order.created"
	LifecycleStatusChanged = "order.status_changed"
)

// LifecycleMessage carries an order mutation between the order service and
// the real-time gateway when they run as separate processes
type LifecycleMessage struct {
	Type        string        `json:"type"`
	Order       *domain.Order `json:"order,omitempty"`
	OrderID     string        `json:"order_id,omitempty"`
	Status      domain.Status `json:"status,omitempty"`
	QueueNumber string        `json:"queue_number,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// OrderNotifier is called by the order service after a mutation has been
// persisted. Implementations are fire-and-forget: they never report failure.
type OrderNotifier interface {
	PublishNewOrder(ctx context.Context, order *domain.Order)
	PublishStatusChange(ctx context.Context, orderID string, status domain.Status, queueNumber string)
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishLifecycle(ctx context.Context, msg LifecycleMessage) error
}

type MessageConsumer interface {
	ConsumeLifecycle(ctx context.Context, handler LifecycleHandler) error
}

type LifecycleHandler func(ctx context.Context, body []byte) error
