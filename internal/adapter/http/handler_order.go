package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/usecase"
)

// dateParamLayout is the format for from/to query parameters
const dateParamLayout = "2006-01-02"

// OrderUseCase defines the behavior the handler depends on
type OrderUseCase interface {
	CreateOrder(ctx context.Context, req usecase.CreateOrderRequest, actor domain.Actor) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, from, to time.Time, filter domain.OrderFilter) cache.Result[[]*domain.Order]
	DeliverOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderUseCase OrderUseCase
	auth         *AuthMiddleware
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUseCase OrderUseCase, auth *AuthMiddleware) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		auth:         auth,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/orders", h.auth.RequireAuth(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/v1/orders", h.auth.RequireAuth(h.ListOrders)).Methods("GET")
	router.HandleFunc("/api/v1/orders/{id}", h.auth.RequireAuth(h.GetOrder)).Methods("GET")
	router.HandleFunc("/api/v1/orders/{id}/deliver", h.auth.RequireAuth(h.DeliverOrder)).Methods("POST")
	router.HandleFunc("/api/v1/orders/{id}/cancel", h.auth.RequireAuth(h.CancelOrder)).Methods("POST")
}

// CreateOrder handles order creation
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	order, err := h.orderUseCase.CreateOrder(r.Context(), req, ActorFromContext(r.Context()))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Order created successfully", order)
}

// ListOrders handles listing orders for a date window. The window defaults
// to the last 7 days when the caller gives no bounds.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	var filter domain.OrderFilter
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := domain.OrderStatus(statusStr)
		filter.Status = &status
	}
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}

	result := h.orderUseCase.ListOrders(r.Context(), from, to, filter)
	writeSuccessWithMeta(w, http.StatusOK, "Orders retrieved successfully", result.Data, resultMeta(result.Source, result.StoredAt))
}

// GetOrder handles retrieving a single order
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id", "Order ID is required")
		return
	}

	order, err := h.orderUseCase.GetOrder(r.Context(), orderID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Order retrieved successfully", order)
}

// DeliverOrder handles marking an order delivered
func (h *OrderHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id", "Order ID is required")
		return
	}

	order, err := h.orderUseCase.DeliverOrder(r.Context(), orderID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Order delivered successfully", order)
}

// CancelOrder handles cancelling a pending order
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id", "Order ID is required")
		return
	}

	order, err := h.orderUseCase.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Order cancelled successfully", order)
}

// parseDateWindow reads from/to query parameters as YYYY-MM-DD dates.
// The "to" bound is inclusive of its whole day.
func parseDateWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(dateParamLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.Parse(dateParamLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return from, to, nil
}
