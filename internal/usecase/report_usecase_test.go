package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/service/logger"
)

func TestReportUseCase_SalesSummary(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	readThrough := cache.NewRepository(cache.NewMemoryStore(), cache.ForcedMonitor{Online: true}, logger.NewNop())
	useCase := NewReportUseCase(orderRepo, readThrough)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	summary := &domain.SalesSummary{From: from, To: to, OrderCount: 4, TotalAmount: 250}
	orderRepo.On("SalesSummary", mock.Anything, from, to).Return(summary, nil)

	result := useCase.SalesSummary(context.Background(), from, to, "user-1")

	assert.Equal(t, cache.SourceLive, result.Source)
	require.NotNil(t, result.Data)
	assert.Equal(t, 4, result.Data.OrderCount)
}

func TestReportUseCase_SalesSummary_PerActorCacheEntries(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	readThrough := cache.NewRepository(cache.NewMemoryStore(), cache.ForcedMonitor{Online: true}, logger.NewNop())
	useCase := NewReportUseCase(orderRepo, readThrough)
	ctx := context.Background()

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	// Only the first actor's summary ever loads successfully.
	orderRepo.On("SalesSummary", mock.Anything, from, to).
		Return(&domain.SalesSummary{OrderCount: 4}, nil).Once()
	orderRepo.On("SalesSummary", mock.Anything, from, to).
		Return(nil, errors.New("backend down"))

	first := useCase.SalesSummary(ctx, from, to, "user-1")
	require.Equal(t, cache.SourceLive, first.Source)

	// The second actor has no cached view of their own, so the failure
	// degrades to empty rather than another user's report.
	second := useCase.SalesSummary(ctx, from, to, "user-2")
	assert.Equal(t, cache.SourceEmpty, second.Source)

	// The first actor still gets their cached report.
	third := useCase.SalesSummary(ctx, from, to, "user-1")
	assert.Equal(t, cache.SourceCache, third.Source)
	require.NotNil(t, third.Data)
	assert.Equal(t, 4, third.Data.OrderCount)
}
