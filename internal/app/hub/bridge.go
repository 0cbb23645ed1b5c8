package hub

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
	"github.com/YelzhanWeb/orderhub/internal/domain"
)

// Bridge lets the order service trigger the routing rules after it has
// persisted a mutation. Until a hub is attached, and on a nil Bridge, every
// call is a no-op.
type Bridge struct {
	hub    atomic.Pointer[Hub]
	logger logger.Logger
}

func NewBridge(lgr logger.Logger) *Bridge {
	if lgr == nil {
		lgr = logger.Nop()
	}
	return &Bridge{logger: lgr}
}

// Attach makes h the target of subsequent publishes
func (b *Bridge) Attach(h *Hub) {
	b.hub.Store(h)
}

// PublishNewOrder sends the full order to the kitchen
func (b *Bridge) PublishNewOrder(ctx context.Context, order *domain.Order) {
	h := b.target()
	if h == nil || order == nil {
		return
	}

	raw, err := json.Marshal(order)
	if err != nil {
		b.logger.Error("notify_failed", "Failed to encode order for kitchen", order.QueueNumber, nil, err)
		return
	}

	h.apply(protocol.NewOrderEffects(raw))

	b.logger.Debug("order_notified", "New order notification sent to kitchen", order.QueueNumber, map[string]interface{}{
		"order_id":     order.ID,
		"queue_number": order.QueueNumber,
	})
}

// PublishStatusChange notifies the owning customer and the kitchen
func (b *Bridge) PublishStatusChange(ctx context.Context, orderID string, status domain.Status, queueNumber string) {
	h := b.target()
	if h == nil {
		return
	}

	h.apply(protocol.StatusChangeEffects(orderID, string(status), queueNumber))

	b.logger.Debug("status_notified", "Order status update notification sent", queueNumber, map[string]interface{}{
		"order_id":     orderID,
		"status":       status,
		"queue_number": queueNumber,
	})
}

func (b *Bridge) target() *Hub {
	if b == nil {
		return nil
	}
	return b.hub.Load()
}
