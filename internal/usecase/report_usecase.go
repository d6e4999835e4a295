package usecase

import (
	"context"
	"time"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// ReportUseCase builds sales reports over delivered orders. Reports are
// the slowest queries in the console, so they always go through the
// read-through cache and are served stale when the backend is down.
type ReportUseCase struct {
	orderRepo   ports.OrderRepository
	readThrough *cache.Repository
}

// NewReportUseCase creates a new report use case
func NewReportUseCase(orderRepo ports.OrderRepository, readThrough *cache.Repository) *ReportUseCase {
	return &ReportUseCase{
		orderRepo:   orderRepo,
		readThrough: readThrough,
	}
}

// SalesSummary aggregates delivered orders inside a date window. The
// cache key includes the window token and the requesting actor, matching
// how each user's report screen caches its own last view.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, from, to time.Time, actorID string) cache.Result[*domain.SalesSummary] {
	key := cache.Key("reports", cache.DateRangeToken(from, to), actorID)

	return cache.Fetch(ctx, uc.readThrough, key, func(ctx context.Context) (*domain.SalesSummary, error) {
		return uc.orderRepo.SalesSummary(ctx, from, to)
	})
}
