package interfaces

import (
	"context"

	"github.com/YelzhanWeb/orderhub/internal/domain"
)

// Команды для сервисов
type CreateOrderCommand struct {
	QueueNumber   string
	CustomerName  string
	TotalAmount   float64
	PaymentMethod string
	Items         []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	MenuItemID string
	Quantity   int
	Price      float64
	Notes      *string
}

// Интерфейсы Сервисов (Business Logic)
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id string, method domain.PaymentMethod, status domain.PaymentStatus) (*domain.Order, error)
	StatusHistory(ctx context.Context, id string) ([]*domain.StatusLog, error)
	GenerateQueueNumber(ctx context.Context) string
}

type MenuService interface {
	ListMenu(ctx context.Context) ([]*domain.MenuItem, error)
	Seed(ctx context.Context) (int, error)
}
