package postgres

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/config"
	"github.com/YelzhanWeb/orderhub/internal/domain"

	"github.com/jackc/pgx/v5"
)

var created = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func orderRow(id, queue string, status domain.Status) []any {
	return []any{id, queue, "Sari", 33000.0, string(status), "CASH", "PENDING", created, created}
}

func newRepo(db *fakeDB) *orderRepository {
	return &orderRepository{db: db, now: func() time.Time { return created.Add(5 * time.Hour) }}
}

func TestOrderRepository_Create(t *testing.T) {
	db := &fakeDB{rowsFn: func(sql string, args []any) [][]any {
		if !strings.Contains(sql, "FROM menu_items") {
			return nil
		}
		return [][]any{{"m1", "Nasi Goreng Spesial", "", 28000.0, "Makanan", true, created}}
	}}
	repo := newRepo(db)

	notes := "no chili"
	order, err := domain.NewOrder("Q-001", "Sari", 33000, "", []domain.OrderItem{
		{MenuItemID: "m1", Quantity: 1, Price: 28000, Notes: &notes},
		{MenuItemID: "m2", Quantity: 1, Price: 5000},
	})
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if order.ID == "" {
		t.Fatal("expected order id to be assigned")
	}
	for _, item := range order.Items {
		if item.ID == "" || item.OrderID != order.ID {
			t.Errorf("item not linked: %+v", item)
		}
	}
	if m := order.Items[0].MenuItem; m == nil || m.Name != "Nasi Goreng Spesial" || m.Category != "Makanan" {
		t.Errorf("first menu item = %+v", m)
	}
	// m2 is not on the menu any more
	if m := order.Items[1].MenuItem; m != nil {
		t.Errorf("second menu item = %+v", m)
	}
	if q := db.queries[0]; !reflect.DeepEqual(q.args[0], []string{"m1", "m2"}) {
		t.Errorf("menu lookup args = %v", q.args)
	}
	if got := len(db.execsMatching("INSERT INTO orders")); got != 1 {
		t.Errorf("order inserts = %d", got)
	}
	if got := len(db.execsMatching("INSERT INTO order_items")); got != 2 {
		t.Errorf("item inserts = %d", got)
	}
	logs := db.execsMatching("INSERT INTO order_status_log")
	if len(logs) != 1 || logs[0].args[1] != domain.StatusWaiting || logs[0].args[2] != ChangedBy {
		t.Errorf("status log = %+v", logs)
	}
	if db.commits != 1 || db.rollbacks != 0 {
		t.Errorf("commits = %d, rollbacks = %d", db.commits, db.rollbacks)
	}
}

func TestOrderRepository_CreateRollsBackOnItemFailure(t *testing.T) {
	db := &fakeDB{execFn: func(sql string) (int64, error) {
		if strings.Contains(sql, "order_items") {
			return 0, errors.New("foreign key violation")
		}
		return 1, nil
	}}
	repo := newRepo(db)

	order, _ := domain.NewOrder("Q-001", "Sari", 5000, domain.PaymentQRIS, []domain.OrderItem{{MenuItemID: "m1", Quantity: 1, Price: 5000}})
	if err := repo.Create(context.Background(), order); err == nil {
		t.Fatal("expected error")
	}
	if db.commits != 0 || db.rollbacks != 1 {
		t.Errorf("commits = %d, rollbacks = %d", db.commits, db.rollbacks)
	}
}

func TestOrderRepository_FindByID(t *testing.T) {
	db := &fakeDB{
		rowFn: func(sql string, args []any) *fakeRow {
			if args[0] != "o1" {
				return &fakeRow{err: pgx.ErrNoRows}
			}
			return &fakeRow{values: orderRow("o1", "Q-001", domain.StatusReady)}
		},
		rowsFn: func(sql string, args []any) [][]any {
			return [][]any{
				{"i1", "o1", "m1", 2, 28000.0, "extra egg", "m1", "Nasi Goreng Spesial", "", 28000.0, "Makanan", true, created},
				{"i2", "o1", "gone", 1, 5000.0, nil, nil, nil, nil, nil, nil, nil, nil},
			}
		},
	}
	repo := newRepo(db)

	order, err := repo.FindByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if order.Status != domain.StatusReady || order.QueueNumber != "Q-001" || order.TotalAmount != 33000 {
		t.Errorf("order = %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d", len(order.Items))
	}
	first := order.Items[0]
	if first.Quantity != 2 || first.Notes == nil || *first.Notes != "extra egg" {
		t.Errorf("first item = %+v", first)
	}
	if first.MenuItem == nil || first.MenuItem.Name != "Nasi Goreng Spesial" || !first.MenuItem.Available {
		t.Errorf("first menu item = %+v", first.MenuItem)
	}
	if second := order.Items[1]; second.MenuItem != nil || second.Notes != nil {
		t.Errorf("second item = %+v", second)
	}

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListFilter(t *testing.T) {
	db := &fakeDB{rowsFn: func(sql string, args []any) [][]any {
		if strings.Contains(sql, "FROM orders") {
			return [][]any{orderRow("o2", "Q-002", domain.StatusWaiting), orderRow("o1", "Q-001", domain.StatusCompleted)}
		}
		return [][]any{
			{"i1", "o1", "m1", 1, 5000.0, nil, nil, nil, nil, nil, nil, nil, nil},
		}
	}}
	repo := newRepo(db)

	orders, err := repo.List(context.Background(), domain.FilterAll)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "o2" {
		t.Fatalf("orders = %+v", orders)
	}
	if len(orders[0].Items) != 0 || len(orders[1].Items) != 1 {
		t.Errorf("items = %d, %d", len(orders[0].Items), len(orders[1].Items))
	}
	if q := db.queries[0]; strings.Contains(q.sql, "WHERE") || len(q.args) != 0 {
		t.Errorf("unfiltered query = %s %v", q.sql, q.args)
	}

	db.queries = nil
	if _, err := repo.List(context.Background(), domain.FilterToday); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	q := db.queries[0]
	if !strings.Contains(q.sql, "created_at >= $1") || len(q.args) != 1 {
		t.Fatalf("today query = %s %v", q.sql, q.args)
	}
	if since := q.args[0].(time.Time); !since.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since = %v", since)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db := &fakeDB{
		rowFn: func(sql string, args []any) *fakeRow {
			return &fakeRow{values: orderRow("o1", "Q-001", domain.StatusPreparing)}
		},
	}
	repo := newRepo(db)

	order, err := repo.UpdateStatus(context.Background(), "o1", domain.StatusPreparing)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if order.Status != domain.StatusPreparing {
		t.Errorf("Status = %s", order.Status)
	}
	if logs := db.execsMatching("order_status_log"); len(logs) != 1 || logs[0].args[1] != domain.StatusPreparing {
		t.Errorf("status log = %+v", logs)
	}
	if db.commits != 1 {
		t.Errorf("commits = %d", db.commits)
	}
}

func TestOrderRepository_UpdateMissingOrder(t *testing.T) {
	db := &fakeDB{execFn: func(sql string) (int64, error) { return 0, nil }}
	repo := newRepo(db)
	ctx := context.Background()

	if _, err := repo.UpdateStatus(ctx, "missing", domain.StatusReady); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("UpdateStatus: expected ErrOrderNotFound, got %v", err)
	}
	if db.rollbacks != 1 || len(db.execsMatching("order_status_log")) != 0 {
		t.Errorf("rollbacks = %d, logs = %d", db.rollbacks, len(db.execsMatching("order_status_log")))
	}
	if _, err := repo.UpdatePayment(ctx, "missing", domain.PaymentQRIS, domain.PaymentPaid); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("UpdatePayment: expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_LatestQueueNumber(t *testing.T) {
	db := &fakeDB{rowFn: func(sql string, args []any) *fakeRow { return &fakeRow{err: pgx.ErrNoRows} }}
	repo := newRepo(db)

	got, err := repo.LatestQueueNumber(context.Background())
	if err != nil || got != "" {
		t.Errorf("empty table: got %q, %v", got, err)
	}

	db.rowFn = func(sql string, args []any) *fakeRow { return &fakeRow{values: []any{"Q-041"}} }
	if got, _ := repo.LatestQueueNumber(context.Background()); got != "Q-041" {
		t.Errorf("got %q, want Q-041", got)
	}

	db.rowFn = func(sql string, args []any) *fakeRow { return &fakeRow{err: errors.New("conn reset")} }
	if _, err := repo.LatestQueueNumber(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestOrderRepository_StatusHistory(t *testing.T) {
	db := &fakeDB{
		rowFn: func(sql string, args []any) *fakeRow {
			return &fakeRow{values: orderRow("o1", "Q-001", domain.StatusConfirmed)}
		},
		rowsFn: func(sql string, args []any) [][]any {
			if !strings.Contains(sql, "order_status_log") {
				return nil
			}
			return [][]any{
				{int64(1), "o1", "WAITING", ChangedBy, created},
				{int64(2), "o1", "CONFIRMED", ChangedBy, created.Add(time.Minute)},
			}
		},
	}
	repo := newRepo(db)

	logs, err := repo.StatusHistory(context.Background(), "o1")
	if err != nil {
		t.Fatalf("StatusHistory failed: %v", err)
	}
	if len(logs) != 2 || logs[1].Status != domain.StatusConfirmed || logs[1].ChangedBy != ChangedBy {
		t.Errorf("logs = %+v", logs)
	}
}

func TestConnString(t *testing.T) {
	got := ConnString(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "order", Password: "p@ss", Database: "orders", SSLMode: "disable",
	})
	want := "postgres://order:p%40ss@db:5432/orders?sslmode=disable"
	if got != want {
		t.Errorf("ConnString = %s, want %s", got, want)
	}
}
