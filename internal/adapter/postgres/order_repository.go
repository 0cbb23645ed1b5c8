package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ChangedBy is recorded in the status log for every change made through the API
const ChangedBy = "order-service"

const orderColumns = `id, queue_number, customer_name, total_amount, status,
		       payment_method, payment_status, created_at, updated_at`

const itemColumns = `oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.notes,
		       m.id, m.name, m.description, m.price, m.category, m.available, m.created_at`

type orderRepository struct {
	db  DB
	now func() time.Time
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db, now: time.Now}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.NewString()

	// Insert order
	query := `
		INSERT INTO orders (id, queue_number, customer_name, total_amount, status,
		                    payment_method, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		order.ID, order.QueueNumber, order.CustomerName, order.TotalAmount, order.Status,
		order.PaymentMethod, order.PaymentStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// Insert order items
	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.NewString()
		item.OrderID = order.ID

		itemQuery := `
			INSERT INTO order_items (id, order_id, menu_item_id, quantity, price, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.MenuItemID, item.Quantity, item.Price, item.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// Кухне нужны названия блюд, как при чтении заказа
	if err := attachMenuItems(ctx, tx, order.Items); err != nil {
		return err
	}

	// Log initial status
	if err := logStatus(ctx, tx, order.ID, order.Status, order.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders newest first, with their items and menu entries
func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if since, ok := filter.Since(r.now()); ok {
		query += ` WHERE created_at >= $1`
		args = append(args, since)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	rows.Close()

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := r.now().UTC()
	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrOrderNotFound
	}

	if err := logStatus(ctx, tx, id, status, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *orderRepository) UpdatePayment(ctx context.Context, id string, method domain.PaymentMethod, status domain.PaymentStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET payment_method = $1, payment_status = $2, updated_at = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, method, status, r.now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrOrderNotFound
	}

	return r.FindByID(ctx, id)
}

// LatestQueueNumber returns the queue number of the most recent order, or an
// empty string when there are no orders yet.
func (r *orderRepository) LatestQueueNumber(ctx context.Context) (string, error) {
	var queueNumber string
	err := r.db.QueryRow(ctx, `SELECT queue_number FROM orders ORDER BY created_at DESC LIMIT 1`).Scan(&queueNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest queue number: %w", err)
	}
	return queueNumber, nil
}

func (r *orderRepository) StatusHistory(ctx context.Context, id string) ([]*domain.StatusLog, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	query := `
		SELECT id, order_id, status, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.StatusLog, 0)
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}
	return logs, nil
}

// loadItems attaches items and their menu entries to the given orders
func (r *orderRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		o.Items = make([]domain.OrderItem, 0)
		byID[o.ID] = o
		ids[i] = o.ID
	}

	query := `
		SELECT ` + itemColumns + `
		FROM order_items oi
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order items: %w", err)
	}
	return nil
}

// attachMenuItems sets MenuItem on every item whose menu entry still exists
func attachMenuItems(ctx context.Context, tx Tx, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.MenuItemID
	}

	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ANY($1)`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load menu items: %w", err)
	}
	defer rows.Close()

	menu := make(map[string]*domain.MenuItem, len(items))
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return fmt.Errorf("failed to scan menu item: %w", err)
		}
		menu[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read menu items: %w", err)
	}

	for i := range items {
		items[i].MenuItem = menu[items[i].MenuItemID]
	}
	return nil
}

func scanOrder(row Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.QueueNumber, &order.CustomerName, &order.TotalAmount, &order.Status,
		&order.PaymentMethod, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func scanItem(row Row) (domain.OrderItem, error) {
	var (
		item domain.OrderItem

		menuID, menuName, menuDesc, menuCategory *string
		menuPrice                                *float64
		menuAvailable                            *bool
		menuCreated                              *time.Time
	)
	err := row.Scan(
		&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &item.Notes,
		&menuID, &menuName, &menuDesc, &menuPrice, &menuCategory, &menuAvailable, &menuCreated,
	)
	if err != nil {
		return item, err
	}

	// меню могло быть пересоздано, тогда позиция остается без menuItem
	if menuID != nil {
		item.MenuItem = &domain.MenuItem{
			ID:          *menuID,
			Name:        deref(menuName),
			Description: deref(menuDesc),
			Category:    deref(menuCategory),
		}
		if menuPrice != nil {
			item.MenuItem.Price = *menuPrice
		}
		if menuAvailable != nil {
			item.MenuItem.Available = *menuAvailable
		}
		if menuCreated != nil {
			item.MenuItem.CreatedAt = *menuCreated
		}
	}
	return item, nil
}

func logStatus(ctx context.Context, tx Tx, orderID string, status domain.Status, at time.Time) error {
	query := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, query, orderID, status, ChangedBy, at); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
