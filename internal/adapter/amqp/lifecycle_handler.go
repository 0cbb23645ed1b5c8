package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

var (
	ErrUnknownType = errors.New("unknown lifecycle message type")
	ErrIncomplete  = errors.New("incomplete lifecycle message")
)

// LifecycleHandler turns broker messages back into notifier calls on the
// gateway side
type LifecycleHandler struct {
	notifier interfaces.OrderNotifier
	logger   logger.Logger
}

func NewLifecycleHandler(notifier interfaces.OrderNotifier, logger logger.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		notifier: notifier,
		logger:   logger,
	}
}

func (h *LifecycleHandler) Handle(ctx context.Context, body []byte) error {
	var msg interfaces.LifecycleMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse lifecycle message", "", nil, err)
		return fmt.Errorf("failed to parse lifecycle message: %w", err)
	}

	h.logger.Debug("lifecycle_received", fmt.Sprintf("Received %s for order %s", msg.Type, msg.QueueNumber),
		msg.QueueNumber, map[string]interface{}{
			"type":     msg.Type,
			"order_id": msg.OrderID,
			"status":   msg.Status,
		})

	switch msg.Type {
	case interfaces.LifecycleOrderCreated:
		if msg.Order == nil {
			return h.reject(msg, ErrIncomplete)
		}
		h.notifier.PublishNewOrder(ctx, msg.Order)

	case interfaces.LifecycleStatusChanged:
		if msg.OrderID == "" || msg.Status == "" {
			return h.reject(msg, ErrIncomplete)
		}
		h.notifier.PublishStatusChange(ctx, msg.OrderID, msg.Status, msg.QueueNumber)

	default:
		return h.reject(msg, ErrUnknownType)
	}

	return nil
}

func (h *LifecycleHandler) reject(msg interfaces.LifecycleMessage, err error) error {
	h.logger.Warn("lifecycle_rejected", "Dropping lifecycle message", msg.QueueNumber, map[string]interface{}{
		"type":     msg.Type,
		"order_id": msg.OrderID,
	})
	return err
}
