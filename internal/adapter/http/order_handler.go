package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	QueueNumber   string             `json:"queueNumber"`
	CustomerName  string             `json:"customerName"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	MenuItemID string  `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Notes      *string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
}

type QueueNumberResponse struct {
	QueueNumber string `json:"queueNumber"`
}

// POST /api/orders. Answers 200 with the stored order, as the register expects.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := interfaces.CreateOrderCommand{
		QueueNumber:   strings.TrimSpace(req.QueueNumber),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Items:         convertItemsToCommand(req.Items),
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrInvalidPayment):
		respondError(w, http.StatusBadRequest, "Invalid payment method")
	case errors.Is(err, domain.ErrInvalidItem):
		respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to create order")
	default:
		respondJSON(w, http.StatusOK, order)
	}
}

// GET /api/orders?filter=all|today|week|month
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseOrderFilter(r.URL.Query().Get("filter"))

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), domain.Status(req.Status))
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update order status")
	default:
		respondJSON(w, http.StatusOK, order)
	}
}

// PATCH /api/orders/{id}/payment
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid payment method")
		return
	}
	status := domain.PaymentStatus(req.PaymentStatus)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	order, err := h.service.UpdatePayment(r.Context(), r.PathValue("id"), method, status)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update payment")
	default:
		respondJSON(w, http.StatusOK, order)
	}
}

// GET /api/orders/{id}/history
func (h *OrderHandler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.StatusHistory(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to fetch status history")
	default:
		respondJSON(w, http.StatusOK, logs)
	}
}

// GET /api/queue/generate. Never fails, the service falls back to a clock
// based number.
func (h *OrderHandler) GenerateQueueNumber(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, QueueNumberResponse{
		QueueNumber: h.service.GenerateQueueNumber(r.Context()),
	})
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.CreateOrderItemCommand {
	result := make([]interfaces.CreateOrderItemCommand, len(items))
	for i, item := range items {
		result[i] = interfaces.CreateOrderItemCommand{
			MenuItemID: strings.TrimSpace(item.MenuItemID),
			Quantity:   item.Quantity,
			Price:      item.Price,
			Notes:      item.Notes,
		}
	}
	return result
}
