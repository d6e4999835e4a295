package ports

import (
	"context"
	"time"

	"github.com/farmdesk/farmdesk/internal/domain"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create saves a new product
	Create(ctx context.Context, product *domain.Product) error

	// FindByID retrieves a product by its ID
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// List retrieves products based on filter criteria
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)

	// Count returns the number of products matching the filter
	Count(ctx context.Context, filter domain.ProductFilter) (int, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create saves a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// FindByID retrieves a customer by its ID
	FindByID(ctx context.Context, id string) (*domain.Customer, error)

	// Update updates an existing customer
	Update(ctx context.Context, customer *domain.Customer) error

	// List retrieves customers based on filter criteria
	List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create saves a new order together with its items
	Create(ctx context.Context, order *domain.Order) error

	// FindByID retrieves an order with its items
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// Update updates an existing order
	Update(ctx context.Context, order *domain.Order) error

	// List retrieves orders based on filter criteria
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)

	// SalesSummary aggregates delivered orders inside a date window
	SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error)
}

// AuditRepository defines the interface for audit log persistence
type AuditRepository interface {
	// Create inserts a new audit record
	Create(ctx context.Context, record *domain.AuditRecord) error

	// ListByEntity retrieves audit records for an entity, newest first
	ListByEntity(ctx context.Context, entityID string, limit int) ([]*domain.AuditRecord, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create saves a new user
	Create(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by its ID
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
