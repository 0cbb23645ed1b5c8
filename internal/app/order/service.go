package order

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

type Service struct {
	repo     interfaces.OrderRepository
	notifier interfaces.OrderNotifier
	logger   logger.Logger
	now      func() time.Time
}

// NewService wires the order service. notifier may be nil, in which case no
// real-time notifications are sent.
func NewService(repo interfaces.OrderRepository, notifier interfaces.OrderNotifier, logger logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	// 1. Преобразование команд в доменные модели
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Notes:      item.Notes,
		}
	}

	// 2. Создание доменной сущности
	order, err := domain.NewOrder(cmd.QueueNumber, cmd.CustomerName, cmd.TotalAmount, domain.PaymentMethod(cmd.PaymentMethod), items)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", cmd.QueueNumber, nil, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 3. Сохранение в БД
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", order.QueueNumber, nil, err)
		return nil, err
	}
	s.logger.Debug("order_created", "Order created in DB", order.QueueNumber, map[string]interface{}{
		"order_id":     order.ID,
		"queue_number": order.QueueNumber,
	})

	// 4. Уведомление кухни. Ошибки уведомления не влияют на заказ.
	if s.notifier != nil {
		s.notifier.PublishNewOrder(ctx, order)
	}

	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to fetch orders", "", map[string]interface{}{"filter": filter}, err)
		return nil, err
	}
	return orders, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("db_update_failed", "Failed to update order status", id, nil, err)
		return nil, err
	}

	s.logger.Info("status_updated", fmt.Sprintf("Order %s is now %s", order.QueueNumber, order.Status), order.QueueNumber, map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if s.notifier != nil {
		s.notifier.PublishStatusChange(ctx, order.ID, order.Status, order.QueueNumber)
	}

	return order, nil
}

// UpdatePayment records a payment change. No routing rule covers payment,
// so nothing is published.
func (s *Service) UpdatePayment(ctx context.Context, id string, method domain.PaymentMethod, status domain.PaymentStatus) (*domain.Order, error) {
	if !method.Valid() || !status.Valid() {
		return nil, domain.ErrInvalidPayment
	}

	order, err := s.repo.UpdatePayment(ctx, id, method, status)
	if err != nil {
		s.logger.Error("db_update_failed", "Failed to update payment", id, nil, err)
		return nil, err
	}

	s.logger.Info("payment_updated", "Order payment updated", order.QueueNumber, map[string]interface{}{
		"order_id":       order.ID,
		"payment_method": order.PaymentMethod,
		"payment_status": order.PaymentStatus,
	})

	return order, nil
}

func (s *Service) StatusHistory(ctx context.Context, id string) ([]*domain.StatusLog, error) {
	logs, err := s.repo.StatusHistory(ctx, id)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to fetch status history", id, nil, err)
		return nil, err
	}
	return logs, nil
}

// GenerateQueueNumber returns the number following the latest order. It never
// fails: on error it falls back to a clock derived number.
func (s *Service) GenerateQueueNumber(ctx context.Context) string {
	latest, err := s.repo.LatestQueueNumber(ctx)
	if err == nil {
		var next string
		next, err = domain.NextQueueNumber(latest)
		if err == nil {
			return next
		}
	}

	fallback := domain.FallbackQueueNumber(s.now())
	s.logger.Error("queue_number_failed", "Error generating queue number, using fallback", "", map[string]interface{}{
		"fallback": fallback,
	}, err)
	return fallback
}
