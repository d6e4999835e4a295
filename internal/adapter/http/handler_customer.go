package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/usecase"
)

// CustomerUseCase defines the behavior the handler depends on
type CustomerUseCase interface {
	CreateCustomer(ctx context.Context, req usecase.CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) cache.Result[[]*domain.Customer]
	UpdateCustomer(ctx context.Context, customerID string, req usecase.UpdateCustomerRequest) (*domain.Customer, error)
}

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	customerUseCase CustomerUseCase
	auth            *AuthMiddleware
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerUseCase CustomerUseCase, auth *AuthMiddleware) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase: customerUseCase,
		auth:            auth,
	}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/customers", h.auth.RequireAuth(h.CreateCustomer)).Methods("POST")
	router.HandleFunc("/api/v1/customers", h.auth.RequireAuth(h.ListCustomers)).Methods("GET")
	router.HandleFunc("/api/v1/customers/{id}", h.auth.RequireAuth(h.GetCustomer)).Methods("GET")
	router.HandleFunc("/api/v1/customers/{id}", h.auth.RequireAuth(h.UpdateCustomer)).Methods("PATCH")
}

// CreateCustomer handles customer creation
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	customer, err := h.customerUseCase.CreateCustomer(r.Context(), req, ActorFromContext(r.Context()))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Customer created successfully", customer)
}

// ListCustomers handles listing customers through the read-through cache
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	var filter domain.CustomerFilter

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		customerType := domain.CustomerType(typeStr)
		filter.Type = &customerType
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	result := h.customerUseCase.ListCustomers(r.Context(), filter)
	writeSuccessWithMeta(w, http.StatusOK, "Customers retrieved successfully", result.Data, resultMeta(result.Source, result.StoredAt))
}

// GetCustomer handles retrieving a single customer
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id", "Customer ID is required")
		return
	}

	customer, err := h.customerUseCase.GetCustomer(r.Context(), customerID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Customer retrieved successfully", customer)
}

// UpdateCustomer handles partial customer updates
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id", "Customer ID is required")
		return
	}

	var req usecase.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	customer, err := h.customerUseCase.UpdateCustomer(r.Context(), customerID, req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Customer updated successfully", customer)
}
