package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// CustomerCodeCategory is the allocator category for customer codes
const CustomerCodeCategory = "CST"

// CreateCustomerRequest represents the request to create a customer
type CreateCustomerRequest struct {
	Name    string              `json:"name" validate:"required,min=2,max=200"`
	Type    domain.CustomerType `json:"type" validate:"required"`
	Phone   string              `json:"phone"`
	Address string              `json:"address"`
}

// UpdateCustomerRequest represents mutable customer attributes
type UpdateCustomerRequest struct {
	Name    *string              `json:"name,omitempty"`
	Type    *domain.CustomerType `json:"type,omitempty"`
	Phone   *string              `json:"phone,omitempty"`
	Address *string              `json:"address,omitempty"`
	Balance *float64             `json:"balance,omitempty"`
}

// CustomerUseCase handles customer-related business logic
type CustomerUseCase struct {
	customerRepo ports.CustomerRepository
	allocator    ports.CodeAllocator
	readThrough  *cache.Repository
}

// NewCustomerUseCase creates a new customer use case
func NewCustomerUseCase(customerRepo ports.CustomerRepository, allocator ports.CodeAllocator, readThrough *cache.Repository) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		allocator:    allocator,
		readThrough:  readThrough,
	}
}

// CreateCustomer mints a code and creates the customer
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, req CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("validation failed: name is required")
	}
	if req.Type != domain.CustomerTypeDealer && req.Type != domain.CustomerTypeHotel {
		return nil, fmt.Errorf("validation failed: invalid customer type: %s", req.Type)
	}

	code, err := uc.allocator.Allocate(ctx, CustomerCodeCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate customer code: %w", err)
	}

	customer := domain.NewCustomer(code, req.Name, req.Type, req.Phone, req.Address, actor.ID)

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer ID is required")
	}

	customer, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// ListCustomers retrieves customers through the read-through cache
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, filter domain.CustomerFilter) cache.Result[[]*domain.Customer] {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	return cache.Fetch(ctx, uc.readThrough, customerListKey(filter), func(ctx context.Context) ([]*domain.Customer, error) {
		return uc.customerRepo.List(ctx, filter)
	})
}

// customerListKey serializes every filter parameter the loader applies,
// so differently-filtered listings never share a cache entry.
func customerListKey(filter domain.CustomerFilter) string {
	customerType := cache.DiscriminatorAll
	if filter.Type != nil {
		customerType = string(*filter.Type)
	}
	createdBy := cache.DiscriminatorAll
	if filter.CreatedBy != nil {
		createdBy = *filter.CreatedBy
	}
	return cache.Key("customers", customerType, createdBy,
		fmt.Sprintf("l%d-o%d", filter.Limit, filter.Offset))
}

// UpdateCustomer applies partial updates to a customer
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, customerID string, req UpdateCustomerRequest) (*domain.Customer, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer ID is required")
	}

	customer, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if req.Name != nil && *req.Name != "" {
		customer.Name = *req.Name
	}
	if req.Type != nil {
		customer.Type = *req.Type
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Balance != nil {
		customer.Balance = *req.Balance
	}
	customer.UpdatedAt = time.Now()

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}
