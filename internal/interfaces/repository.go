package interfaces

import (
	"context"

	"github.com/YelzhanWeb/orderhub/internal/domain"
)

// Интерфейсы Репозиториев (Adapter/Postgres)
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id string, method domain.PaymentMethod, status domain.PaymentStatus) (*domain.Order, error)
	LatestQueueNumber(ctx context.Context) (string, error)
	StatusHistory(ctx context.Context, id string) ([]*domain.StatusLog, error)
}

type MenuRepository interface {
	ListAvailable(ctx context.Context) ([]*domain.MenuItem, error)
	ReplaceAll(ctx context.Context, items []domain.MenuItem) (int, error)
}

// OrderLookup resolves an order by id. Used to verify relayed status updates.
type OrderLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}
