package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// OrderCodeCategory is the allocator category for order codes
const OrderCodeCategory = "ORD"

// CreateOrderItemRequest is one line of an order create request
type CreateOrderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
	// OnCredit selects the credit price column for the customer's tier
	OnCredit bool `json:"on_credit"`
}

// CreateOrderRequest represents the request to create an order
type CreateOrderRequest struct {
	CustomerID string                   `json:"customer_id" validate:"required"`
	Items      []CreateOrderItemRequest `json:"items" validate:"required,min=1"`
}

// OrderUseCase handles order-related business logic
type OrderUseCase struct {
	orderRepo    ports.OrderRepository
	productRepo  ports.ProductRepository
	customerRepo ports.CustomerRepository
	allocator    ports.CodeAllocator
	readThrough  *cache.Repository
}

// NewOrderUseCase creates a new order use case
func NewOrderUseCase(
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	customerRepo ports.CustomerRepository,
	allocator ports.CodeAllocator,
	readThrough *cache.Repository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		allocator:    allocator,
		readThrough:  readThrough,
	}
}

// CreateOrder prices each line from the customer's tier and the product's
// current price card, mints an order code and persists the order.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, req CreateOrderRequest, actor domain.Actor) (*domain.Order, error) {
	if req.CustomerID == "" {
		return nil, fmt.Errorf("validation failed: customer ID is required")
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := uc.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", line.ProductID, err)
		}
		if line.Qty <= 0 {
			return nil, fmt.Errorf("validation failed: qty must be positive for product %s", line.ProductID)
		}

		tier := priceTierFor(customer.Type, line.OnCredit)
		unitPrice, err := product.PriceForTier(tier)
		if err != nil {
			return nil, err
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Qty:       line.Qty,
			UnitPrice: unitPrice,
			Tier:      tier,
		})
	}

	code, err := uc.allocator.Allocate(ctx, OrderCodeCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order code: %w", err)
	}

	order, err := domain.NewOrder(code, customer.ID, items, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetOrder retrieves an order by ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order ID is required")
	}

	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// ListOrders retrieves orders for a date window through the read-through
// cache. The window is part of the cache key.
func (uc *OrderUseCase) ListOrders(ctx context.Context, from, to time.Time, filter domain.OrderFilter) cache.Result[[]*domain.Order] {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	filter.From = &from
	filter.To = &to

	return cache.Fetch(ctx, uc.readThrough, orderListKey(from, to, filter), func(ctx context.Context) ([]*domain.Order, error) {
		return uc.orderRepo.List(ctx, filter)
	})
}

// orderListKey serializes the window and every filter parameter the
// loader applies, so differently-filtered listings never share an entry.
func orderListKey(from, to time.Time, filter domain.OrderFilter) string {
	status := cache.DiscriminatorAll
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	customerID := cache.DiscriminatorAll
	if filter.CustomerID != nil {
		customerID = *filter.CustomerID
	}
	return cache.Key("orders", cache.DateRangeToken(from, to), status, customerID,
		fmt.Sprintf("l%d-o%d", filter.Limit, filter.Offset))
}

// DeliverOrder marks an order as delivered
func (uc *OrderUseCase) DeliverOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := order.Deliver(); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// CancelOrder cancels a pending order
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

func priceTierFor(customerType domain.CustomerType, onCredit bool) domain.PriceTier {
	switch {
	case customerType == domain.CustomerTypeHotel && onCredit:
		return domain.PriceTierHotelCredit
	case customerType == domain.CustomerTypeHotel:
		return domain.PriceTierHotelCash
	case onCredit:
		return domain.PriceTierDealerCredit
	default:
		return domain.PriceTierDealerCash
	}
}
