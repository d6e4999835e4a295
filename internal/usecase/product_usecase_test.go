package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmdesk/farmdesk/internal/audit"
	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/service/logger"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, record *domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByEntity(ctx context.Context, entityID string, limit int) ([]*domain.AuditRecord, error) {
	args := m.Called(ctx, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditRecord), args.Error(1)
}

// MockCodeAllocator is a mock implementation of CodeAllocator
type MockCodeAllocator struct {
	mock.Mock
}

func (m *MockCodeAllocator) Allocate(ctx context.Context, categoryCode string) (string, error) {
	args := m.Called(ctx, categoryCode)
	return args.String(0), args.Error(1)
}

// MockSessionContext is a mock implementation of SessionContext
type MockSessionContext struct {
	mock.Mock
}

func (m *MockSessionContext) Announce(ctx context.Context, actorID, actorName string) error {
	args := m.Called(ctx, actorID, actorName)
	return args.Error(0)
}

type productUseCaseFixture struct {
	productRepo *MockProductRepository
	auditRepo   *MockAuditRepository
	allocator   *MockCodeAllocator
	session     *MockSessionContext
	useCase     *ProductUseCase
}

func newProductUseCaseFixture() *productUseCaseFixture {
	productRepo := new(MockProductRepository)
	auditRepo := new(MockAuditRepository)
	allocator := new(MockCodeAllocator)
	session := new(MockSessionContext)

	recorder := audit.NewRecorder(session, auditRepo, domain.AuditedPriceFields(), logger.NewNop())
	readThrough := cache.NewRepository(cache.NewMemoryStore(), cache.ForcedMonitor{Online: true}, logger.NewNop())

	return &productUseCaseFixture{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		allocator:   allocator,
		session:     session,
		useCase:     NewProductUseCase(productRepo, auditRepo, allocator, recorder, readThrough),
	}
}

func TestProductUseCase_CreateProduct(t *testing.T) {
	f := newProductUseCaseFixture()
	actor := domain.Actor{ID: "user-1", Name: "Ana"}

	f.allocator.On("Allocate", mock.Anything, "PRD").Return("PRD-000001", nil)
	f.session.On("Announce", mock.Anything, "user-1", "Ana").Return(nil)
	f.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := f.useCase.CreateProduct(context.Background(), CreateProductRequest{
		Name:              "Brown Eggs",
		Category:          domain.ProductCategoryProduce,
		Unit:              "tray",
		PriceDealerCash:   10,
		PriceDealerCredit: 11,
		PriceHotelCash:    12,
		PriceHotelCredit:  13,
	}, actor)

	require.NoError(t, err)
	assert.Equal(t, "PRD-000001", product.Code)
	assert.Equal(t, 10.0, product.PriceDealerCash)
	assert.True(t, product.Active)
	f.productRepo.AssertExpectations(t)
}

func TestProductUseCase_CreateProduct_AllocatorFailureAbortsCreate(t *testing.T) {
	f := newProductUseCaseFixture()

	f.allocator.On("Allocate", mock.Anything, "PRD").Return("", errors.New("counter unavailable"))

	_, err := f.useCase.CreateProduct(context.Background(), CreateProductRequest{
		Name:     "Brown Eggs",
		Category: domain.ProductCategoryProduce,
		Unit:     "tray",
	}, domain.Actor{ID: "user-1"})

	require.Error(t, err)
	f.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUseCase_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{
			name: "missing name",
			req:  CreateProductRequest{Category: domain.ProductCategoryFeed, Unit: "kg"},
		},
		{
			name: "invalid category",
			req:  CreateProductRequest{Name: "Eggs", Category: "UNKNOWN", Unit: "kg"},
		},
		{
			name: "negative price",
			req: CreateProductRequest{
				Name:            "Eggs",
				Category:        domain.ProductCategoryFeed,
				Unit:            "kg",
				PriceDealerCash: -1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductUseCaseFixture()
			_, err := f.useCase.CreateProduct(context.Background(), tt.req, domain.Actor{ID: "user-1"})
			assert.Error(t, err)
			f.allocator.AssertNotCalled(t, "Allocate", mock.Anything, mock.Anything)
		})
	}
}

func TestProductUseCase_UpdatePrices_NoOpLeavesNoAuditRecord(t *testing.T) {
	f := newProductUseCaseFixture()

	existing := domain.NewProduct("PRD-000001", "Brown Eggs", domain.ProductCategoryProduce, "tray", "user-1")
	require.NoError(t, existing.SetPrices(10, 11, 12, 13))

	f.productRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	// Announce fails, so the manual path runs and its diff decides.
	f.session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))
	f.productRepo.On("Update", mock.Anything, existing).Return(nil)

	_, err := f.useCase.UpdatePrices(context.Background(), existing.ID, UpdatePricesRequest{
		PriceDealerCash:   10,
		PriceDealerCredit: 11,
		PriceHotelCash:    12,
		PriceHotelCredit:  13,
	}, domain.Actor{ID: "user-1"})

	require.NoError(t, err)
	f.auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUseCase_UpdatePrices_RecordsChangedFields(t *testing.T) {
	f := newProductUseCaseFixture()

	existing := domain.NewProduct("PRD-000001", "Brown Eggs", domain.ProductCategoryProduce, "tray", "user-1")
	require.NoError(t, existing.SetPrices(10, 11, 12, 13))

	f.productRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	f.session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))
	f.productRepo.On("Update", mock.Anything, existing).Return(nil)

	var captured *domain.AuditRecord
	f.auditRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.AuditRecord)
		}).
		Return(nil)

	_, err := f.useCase.UpdatePrices(context.Background(), existing.ID, UpdatePricesRequest{
		PriceDealerCash:   15,
		PriceDealerCredit: 11,
		PriceHotelCash:    12,
		PriceHotelCredit:  13,
	}, domain.Actor{ID: "user-1", Name: "Ana"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, []string{"price_dealer_cash"}, captured.ChangedFields)
	assert.Equal(t, 10.0, captured.OldValues["price_dealer_cash"])
	assert.Equal(t, 15.0, captured.NewValues["price_dealer_cash"])
	// Unchanged fields still appear in both snapshots.
	assert.Equal(t, 11.0, captured.OldValues["price_dealer_credit"])
	assert.Equal(t, 11.0, captured.NewValues["price_dealer_credit"])
}

func TestProductUseCase_UpdatePrices_InactiveProduct(t *testing.T) {
	f := newProductUseCaseFixture()

	existing := domain.NewProduct("PRD-000001", "Brown Eggs", domain.ProductCategoryProduce, "tray", "user-1")
	existing.Active = false

	f.productRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

	_, err := f.useCase.UpdatePrices(context.Background(), existing.ID, UpdatePricesRequest{
		PriceDealerCash: 15,
	}, domain.Actor{ID: "user-1"})

	assert.ErrorIs(t, err, domain.ErrProductInactive)
	f.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductUseCase_ListProducts_DegradesToCache(t *testing.T) {
	f := newProductUseCaseFixture()
	ctx := context.Background()

	products := []*domain.Product{{ID: "prod-1", Name: "Brown Eggs"}}
	f.productRepo.On("List", mock.Anything, mock.Anything).Return(products, nil).Once()
	f.productRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("backend down")).Once()

	first := f.useCase.ListProducts(ctx, domain.ProductFilter{})
	assert.Equal(t, cache.SourceLive, first.Source)

	second := f.useCase.ListProducts(ctx, domain.ProductFilter{})
	assert.Equal(t, cache.SourceCache, second.Source)
	require.Len(t, second.Data, 1)
	assert.Equal(t, "prod-1", second.Data[0].ID)
}

func TestProductUseCase_ListProducts_LimitShapesCacheKey(t *testing.T) {
	f := newProductUseCaseFixture()
	ctx := context.Background()

	f.productRepo.On("List", mock.Anything, mock.MatchedBy(func(filter domain.ProductFilter) bool {
		return filter.Limit == 1
	})).Return([]*domain.Product{{ID: "prod-1"}}, nil).Once()
	f.productRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	truncated := f.useCase.ListProducts(ctx, domain.ProductFilter{Limit: 1})
	require.Equal(t, cache.SourceLive, truncated.Source)

	// A one-row page must not be served as the full list when a later
	// unlimited read degrades to the cache.
	full := f.useCase.ListProducts(ctx, domain.ProductFilter{})
	assert.Equal(t, cache.SourceEmpty, full.Source)
	assert.Empty(t, full.Data)
}

func TestProductUseCase_ListProducts_ActiveFilterShapesCacheKey(t *testing.T) {
	f := newProductUseCaseFixture()
	ctx := context.Background()
	active := true

	f.productRepo.On("List", mock.Anything, mock.MatchedBy(func(filter domain.ProductFilter) bool {
		return filter.Active != nil
	})).Return([]*domain.Product{{ID: "prod-active"}}, nil).Once()
	f.productRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	activeOnly := f.useCase.ListProducts(ctx, domain.ProductFilter{Active: &active})
	require.Equal(t, cache.SourceLive, activeOnly.Source)

	all := f.useCase.ListProducts(ctx, domain.ProductFilter{})
	assert.Equal(t, cache.SourceEmpty, all.Source)
}
