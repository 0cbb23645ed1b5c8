package domain

import (
	"errors"
	"fmt"
	"time"
)

// Order represents a customer order placed from the menu
type Order struct {
	ID            string        `json:"id"`
	QueueNumber   string        `json:"queueNumber"`
	CustomerName  string        `json:"customerName"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        Status        `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Items         []OrderItem   `json:"orderItems"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// OrderItem represents a menu item line in an order
type OrderItem struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	MenuItemID string    `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	Notes      *string   `json:"notes"`
	MenuItem   *MenuItem `json:"menuItem,omitempty"`
}

// NewOrder creates a waiting, unpaid order. Payment method defaults to cash.
func NewOrder(queueNumber, customerName string, totalAmount float64, method PaymentMethod, items []OrderItem) (*Order, error) {
	if method == "" {
		method = PaymentCash
	}

	order := &Order{
		QueueNumber:   queueNumber,
		CustomerName:  customerName,
		TotalAmount:   totalAmount,
		Status:        StatusWaiting,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		Items:         items,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate applies the checks the order API performs before persisting
func (o *Order) Validate() error {
	if o.QueueNumber == "" || o.CustomerName == "" || len(o.Items) == 0 || o.TotalAmount == 0 {
		return ErrMissingFields
	}

	if !o.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}

	for _, item := range o.Items {
		if item.MenuItemID == "" {
			return fmt.Errorf("%w: menuItemId is required", ErrInvalidItem)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidItem)
		}
	}

	return nil
}

// SetStatus moves the order to the given status. Any of the five stages may be
// set from any other; the kitchen display drives the progression.
func (o *Order) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPayment records the payment method and status
func (o *Order) SetPayment(method PaymentMethod, status PaymentStatus) error {
	if !method.Valid() || !status.Valid() {
		return ErrInvalidPayment
	}
	o.PaymentMethod = method
	o.PaymentStatus = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidPayment = errors.New("invalid payment")
	ErrInvalidItem    = errors.New("invalid order item")
)
