package hub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/YelzhanWeb/orderhub/internal/domain"
)

func TestBridge_NilAndDetachedAreNoops(t *testing.T) {
	ctx := context.Background()
	order := &domain.Order{ID: "o1", QueueNumber: "Q-001"}

	var nilBridge *Bridge
	nilBridge.PublishNewOrder(ctx, order)
	nilBridge.PublishStatusChange(ctx, "o1", domain.StatusReady, "Q-001")

	detached := NewBridge(nil)
	detached.PublishNewOrder(ctx, order)
	detached.PublishStatusChange(ctx, "o1", domain.StatusReady, "Q-001")
}

func TestBridge_PublishNewOrder(t *testing.T) {
	h := newTestHub(t, Options{})
	kitchen := accept(t, h)
	customer := accept(t, h)
	h.Join(kitchen.ID(), "kitchen")
	h.Join(customer.ID(), "customer-Q-010")

	b := NewBridge(nil)
	b.Attach(h)

	order := &domain.Order{ID: "o10", QueueNumber: "Q-010", CustomerName: "Sari", Status: domain.StatusWaiting}
	b.PublishNewOrder(context.Background(), order)

	frame := next(t, kitchen)
	if frame.Event != "order-received" {
		t.Fatalf("Event = %s", frame.Event)
	}
	var got domain.Order
	if err := json.Unmarshal(frame.Data, &got); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if got.ID != "o10" || got.QueueNumber != "Q-010" || got.CustomerName != "Sari" {
		t.Errorf("order = %+v", got)
	}

	// new orders go to the kitchen only
	assertEmpty(t, customer)
}

func TestBridge_PublishStatusChange(t *testing.T) {
	h := newTestHub(t, Options{})
	kitchen := accept(t, h)
	customer := accept(t, h)
	h.Join(kitchen.ID(), "kitchen")
	h.Join(customer.ID(), "customer-Q-005")

	b := NewBridge(nil)
	b.Attach(h)
	b.PublishStatusChange(context.Background(), "o1", domain.StatusPreparing, "Q-005")

	if frame := next(t, customer); string(frame.Data) != `{"orderId":"o1","status":"PREPARING"}` {
		t.Errorf("customer got %s %s", frame.Event, frame.Data)
	}
	if frame := next(t, kitchen); string(frame.Data) != `{"orderId":"o1","status":"PREPARING","queueNumber":"Q-005"}` {
		t.Errorf("kitchen got %s %s", frame.Event, frame.Data)
	}
}

func TestBridge_StatusChangeWithoutListeners(t *testing.T) {
	h := newTestHub(t, Options{})
	b := NewBridge(nil)
	b.Attach(h)

	for _, status := range domain.Statuses {
		b.PublishStatusChange(context.Background(), "o1", status, "Q-777")
	}

	if stats := h.Stats(); stats.Topics != 0 {
		t.Errorf("publishing must not create topics, got %d", stats.Topics)
	}
}
