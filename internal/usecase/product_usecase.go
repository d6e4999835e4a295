package usecase

import (
	"context"
	"fmt"

	"github.com/farmdesk/farmdesk/internal/audit"
	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// ProductCodeCategory is the allocator category for product codes
const ProductCodeCategory = "PRD"

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name              string                 `json:"name" validate:"required,min=2,max=200"`
	Category          domain.ProductCategory `json:"category" validate:"required"`
	Unit              string                 `json:"unit" validate:"required"`
	PriceDealerCash   float64                `json:"price_dealer_cash"`
	PriceDealerCredit float64                `json:"price_dealer_credit"`
	PriceHotelCash    float64                `json:"price_hotel_cash"`
	PriceHotelCredit  float64                `json:"price_hotel_credit"`
}

// UpdatePricesRequest represents a price change on a product
type UpdatePricesRequest struct {
	PriceDealerCash   float64 `json:"price_dealer_cash"`
	PriceDealerCredit float64 `json:"price_dealer_credit"`
	PriceHotelCash    float64 `json:"price_hotel_cash"`
	PriceHotelCredit  float64 `json:"price_hotel_credit"`
}

// ProductUseCase handles product-related business logic
type ProductUseCase struct {
	productRepo ports.ProductRepository
	auditRepo   ports.AuditRepository
	allocator   ports.CodeAllocator
	recorder    *audit.Recorder
	readThrough *cache.Repository
}

// NewProductUseCase creates a new product use case
func NewProductUseCase(
	productRepo ports.ProductRepository,
	auditRepo ports.AuditRepository,
	allocator ports.CodeAllocator,
	recorder *audit.Recorder,
	readThrough *cache.Repository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		allocator:   allocator,
		recorder:    recorder,
		readThrough: readThrough,
	}
}

// CreateProduct mints a code, creates the product and records the initial
// price snapshot. A code allocation failure aborts the create: no partial
// insert.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, req CreateProductRequest, actor domain.Actor) (*domain.Product, error) {
	if err := uc.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	code, err := uc.allocator.Allocate(ctx, ProductCodeCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate product code: %w", err)
	}

	product := domain.NewProduct(code, req.Name, req.Category, req.Unit, actor.ID)
	if err := product.SetPrices(req.PriceDealerCash, req.PriceDealerCredit, req.PriceHotelCash, req.PriceHotelCredit); err != nil {
		return nil, err
	}

	change := audit.Change{
		EntityID: product.ID,
		Action:   domain.AuditActionCreate,
		Old:      zeroPriceSnapshot(),
		New:      product.PriceSnapshot(),
		Apply: func(ctx context.Context) error {
			return uc.productRepo.Create(ctx, product)
		},
	}

	if err := uc.recorder.RecordChange(ctx, change, actor); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts retrieves products through the read-through cache. The
// result carries its source so screens can show a staleness indicator.
func (uc *ProductUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) cache.Result[[]*domain.Product] {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	return cache.Fetch(ctx, uc.readThrough, productListKey(filter), func(ctx context.Context) ([]*domain.Product, error) {
		return uc.productRepo.List(ctx, filter)
	})
}

// productListKey serializes every filter parameter the loader applies,
// so differently-filtered listings never share a cache entry.
func productListKey(filter domain.ProductFilter) string {
	category := cache.DiscriminatorAll
	if filter.Category != nil {
		category = string(*filter.Category)
	}
	active := cache.DiscriminatorAll
	if filter.Active != nil {
		active = fmt.Sprintf("%t", *filter.Active)
	}
	createdBy := cache.DiscriminatorAll
	if filter.CreatedBy != nil {
		createdBy = *filter.CreatedBy
	}
	return cache.Key("products", category, active, createdBy,
		fmt.Sprintf("l%d-o%d", filter.Limit, filter.Offset))
}

// UpdatePrices applies a price change and ensures its audit trail. A
// change that alters no audited field produces no audit record.
func (uc *ProductUseCase) UpdatePrices(ctx context.Context, productID string, req UpdatePricesRequest, actor domain.Actor) (*domain.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldSnapshot := product.PriceSnapshot()

	if err := product.SetPrices(req.PriceDealerCash, req.PriceDealerCredit, req.PriceHotelCash, req.PriceHotelCredit); err != nil {
		return nil, err
	}

	change := audit.Change{
		EntityID: product.ID,
		Action:   domain.AuditActionUpdate,
		Old:      oldSnapshot,
		New:      product.PriceSnapshot(),
		Apply: func(ctx context.Context) error {
			return uc.productRepo.Update(ctx, product)
		},
	}

	if err := uc.recorder.RecordChange(ctx, change, actor); err != nil {
		return nil, fmt.Errorf("failed to update prices: %w", err)
	}

	return product, nil
}

// GetPriceHistory retrieves the audit trail for a product
func (uc *ProductUseCase) GetPriceHistory(ctx context.Context, productID string, limit int) ([]*domain.AuditRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	records, err := uc.auditRepo.ListByEntity(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	return records, nil
}

func (uc *ProductUseCase) validateCreateRequest(req CreateProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if req.Unit == "" {
		return fmt.Errorf("unit is required")
	}

	validCategories := map[domain.ProductCategory]bool{
		domain.ProductCategoryFeed:      true,
		domain.ProductCategoryProduce:   true,
		domain.ProductCategoryLivestock: true,
		domain.ProductCategorySupply:    true,
		domain.ProductCategoryOther:     true,
	}
	if !validCategories[req.Category] {
		return fmt.Errorf("invalid category: %s", req.Category)
	}

	for field, price := range map[string]float64{
		domain.FieldPriceDealerCash:   req.PriceDealerCash,
		domain.FieldPriceDealerCredit: req.PriceDealerCredit,
		domain.FieldPriceHotelCash:    req.PriceHotelCash,
		domain.FieldPriceHotelCredit:  req.PriceHotelCredit,
	} {
		if price < 0 {
			return fmt.Errorf("%s must not be negative", field)
		}
	}

	return nil
}

func zeroPriceSnapshot() map[string]interface{} {
	snapshot := make(map[string]interface{}, 4)
	for _, field := range domain.AuditedPriceFields() {
		snapshot[field] = float64(0)
	}
	return snapshot
}
