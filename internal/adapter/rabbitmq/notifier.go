package rabbitmq

import (
	"context"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

// Notifier forwards order mutations to the real-time gateway over the broker.
// Publish failures are logged and never reach the caller.
type Notifier struct {
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewNotifier(publisher interfaces.MessagePublisher, logger logger.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger, now: time.Now}
}

func (n *Notifier) PublishNewOrder(ctx context.Context, order *domain.Order) {
	n.publish(ctx, interfaces.LifecycleMessage{
		Type:        interfaces.LifecycleOrderCreated,
		Order:       order,
		OrderID:     order.ID,
		QueueNumber: order.QueueNumber,
		Status:      order.Status,
		Timestamp:   n.now().UTC(),
	})
}

func (n *Notifier) PublishStatusChange(ctx context.Context, orderID string, status domain.Status, queueNumber string) {
	n.publish(ctx, interfaces.LifecycleMessage{
		Type:        interfaces.LifecycleStatusChanged,
		OrderID:     orderID,
		Status:      status,
		QueueNumber: queueNumber,
		Timestamp:   n.now().UTC(),
	})
}

func (n *Notifier) publish(ctx context.Context, msg interfaces.LifecycleMessage) {
	if err := n.publisher.PublishLifecycle(ctx, msg); err != nil {
		n.logger.Error("rabbitmq_publish_failed", "Failed to publish lifecycle message", msg.QueueNumber, map[string]interface{}{
			"type":     msg.Type,
			"order_id": msg.OrderID,
		}, err)
		return
	}

	n.logger.Debug("lifecycle_published", "Lifecycle message published", msg.QueueNumber, map[string]interface{}{
		"type":     msg.Type,
		"order_id": msg.OrderID,
	})
}
