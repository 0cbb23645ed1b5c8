package hub

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

// OrderVerifier accepts a relayed status update only when the queue number
// belongs to the referenced order
type OrderVerifier struct {
	orders interfaces.OrderLookup
}

func NewOrderVerifier(orders interfaces.OrderLookup) *OrderVerifier {
	return &OrderVerifier{orders: orders}
}

func (v *OrderVerifier) VerifyStatusRelay(ctx context.Context, orderID, queueNumber string) error {
	order, err := v.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayRejected, err)
	}
	if order.QueueNumber != queueNumber {
		return fmt.Errorf("%w: order %s has queue number %s, not %s", ErrRelayRejected, orderID, order.QueueNumber, queueNumber)
	}
	return nil
}
