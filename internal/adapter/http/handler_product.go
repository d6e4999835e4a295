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

// ProductUseCase defines the behavior the handler depends on.
// Using an interface here makes the handler easily testable with mocks.
type ProductUseCase interface {
	CreateProduct(ctx context.Context, req usecase.CreateProductRequest, actor domain.Actor) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) cache.Result[[]*domain.Product]
	UpdatePrices(ctx context.Context, productID string, req usecase.UpdatePricesRequest, actor domain.Actor) (*domain.Product, error)
	GetPriceHistory(ctx context.Context, productID string, limit int) ([]*domain.AuditRecord, error)
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	productUseCase ProductUseCase
	auth           *AuthMiddleware
}

// NewProductHandler creates a new product handler
func NewProductHandler(productUseCase ProductUseCase, auth *AuthMiddleware) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		auth:           auth,
	}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/products", h.auth.RequireAuth(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/v1/products", h.auth.RequireAuth(h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/v1/products/{id}", h.auth.RequireAuth(h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/v1/products/{id}/prices", h.auth.RequireAuth(h.UpdatePrices)).Methods("PUT")
	router.HandleFunc("/api/v1/products/{id}/price-history", h.auth.RequireAuth(h.GetPriceHistory)).Methods("GET")
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	product, err := h.productUseCase.CreateProduct(r.Context(), req, ActorFromContext(r.Context()))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts handles listing products through the read-through cache
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProductFilter

	if categoryStr := r.URL.Query().Get("category"); categoryStr != "" {
		category := domain.ProductCategory(categoryStr)
		filter.Category = &category
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	result := h.productUseCase.ListProducts(r.Context(), filter)
	writeSuccessWithMeta(w, http.StatusOK, "Products retrieved successfully", result.Data, resultMeta(result.Source, result.StoredAt))
}

// GetProduct handles retrieving a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product_id", "Product ID is required")
		return
	}

	product, err := h.productUseCase.GetProduct(r.Context(), productID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product retrieved successfully", product)
}

// UpdatePrices handles a price change on a product
func (h *ProductHandler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product_id", "Product ID is required")
		return
	}

	var req usecase.UpdatePricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	product, err := h.productUseCase.UpdatePrices(r.Context(), productID, req, ActorFromContext(r.Context()))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Prices updated successfully", product)
}

// GetPriceHistory handles retrieving the audit trail for a product
func (h *ProductHandler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product_id", "Product ID is required")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.productUseCase.GetPriceHistory(r.Context(), productID, limit)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Price history retrieved successfully", records)
}
