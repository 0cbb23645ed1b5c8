package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"

	"github.com/google/uuid"
)

const menuColumns = `id, name, description, price, category, available, created_at`

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ListAvailable(ctx context.Context) ([]*domain.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE available = TRUE
		ORDER BY category ASC, name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	return items, nil
}

// ReplaceAll deletes the current menu and inserts items in one transaction
func (r *menuRepository) ReplaceAll(ctx context.Context, items []domain.MenuItem) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items`); err != nil {
		return 0, fmt.Errorf("failed to clear menu: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO menu_items (id, name, description, price, category, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if _, err := tx.Exec(ctx, query, item.ID, item.Name, item.Description, item.Price, item.Category, item.Available, item.CreatedAt); err != nil {
			return 0, fmt.Errorf("failed to insert menu item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit menu: %w", err)
	}
	return len(items), nil
}

func scanMenuItem(row Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Available, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
