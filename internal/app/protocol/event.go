// Package protocol defines the real-time event vocabulary exchanged with
// kitchen and customer clients, the frame codec, and the routing rules that
// map order lifecycle events to topics.
package protocol

import (
	"encoding/json"
	"time"
)

// Event names. These are part of the wire contract.
const (
	EventConnected         = "connected"
	EventJoinKitchen       = "join-kitchen"
	EventJoinCustomer      = "join-customer"
	EventNewOrder          = "new-order"
	EventOrderStatusUpdate = "order-status-update"
	EventOrderReceived     = "order-received"
	EventStatusUpdated     = "status-updated"
	EventOrderUpdated      = "order-updated"
	EventDisconnect        = "disconnect"
)

// WelcomeMessage is sent in the connected event
const WelcomeMessage = "Connected to order system"

// Event is a server to client message. The set of implementations is closed.
type Event interface {
	Name() string
	isEvent()
}

type Connected struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// OrderReceived carries the order exactly as the publisher supplied it
type OrderReceived struct {
	Order json.RawMessage
}

type StatusUpdated struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type OrderUpdated struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	QueueNumber string `json:"queueNumber"`
}

func (Connected) Name() string     { return EventConnected }
func (OrderReceived) Name() string { return EventOrderReceived }
func (StatusUpdated) Name() string { return EventStatusUpdated }
func (OrderUpdated) Name() string  { return EventOrderUpdated }

func (Connected) isEvent()     {}
func (OrderReceived) isEvent() {}
func (StatusUpdated) isEvent() {}
func (OrderUpdated) isEvent()  {}

// NewConnected builds the welcome event stamped with now
func NewConnected(now time.Time) Connected {
	return Connected{
		Message:   WelcomeMessage,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

// Inbound is a client to server message. The set of implementations is closed.
type Inbound interface {
	Name() string
	isInbound()
}

type JoinKitchen struct{}

type JoinCustomer struct {
	QueueNumber string `json:"queueNumber"`
}

// NewOrder is relayed to the kitchen without interpretation
type NewOrder struct {
	Order json.RawMessage
}

type OrderStatusUpdate struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	QueueNumber string `json:"queueNumber"`
}

type Disconnect struct{}

func (JoinKitchen) Name() string       { return EventJoinKitchen }
func (JoinCustomer) Name() string      { return EventJoinCustomer }
func (NewOrder) Name() string          { return EventNewOrder }
func (OrderStatusUpdate) Name() string { return EventOrderStatusUpdate }
func (Disconnect) Name() string        { return EventDisconnect }

func (JoinKitchen) isInbound()       {}
func (JoinCustomer) isInbound()      {}
func (NewOrder) isInbound()          {}
func (OrderStatusUpdate) isInbound() {}
func (Disconnect) isInbound()        {}
