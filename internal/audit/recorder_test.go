package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/service/logger"
)

// MockSessionContext is a mock implementation of SessionContext
type MockSessionContext struct {
	mock.Mock
}

func (m *MockSessionContext) Announce(ctx context.Context, actorID, actorName string) error {
	args := m.Called(ctx, actorID, actorName)
	return args.Error(0)
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

func newTestRecorder(session *MockSessionContext, auditRepo *MockAuditRepository) *Recorder {
	return NewRecorder(session, auditRepo, domain.AuditedPriceFields(), logger.NewNop())
}

func priceMap(dealerCash, dealerCredit, hotelCash, hotelCredit float64) map[string]interface{} {
	return map[string]interface{}{
		"price_dealer_cash":   dealerCash,
		"price_dealer_credit": dealerCredit,
		"price_hotel_cash":    hotelCash,
		"price_hotel_credit":  hotelCredit,
	}
}

func TestRecordChange_TriggerPathSkipsManualWrite(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	actor := domain.Actor{ID: "user-1", Name: "Ana"}
	session.On("Announce", mock.Anything, "user-1", "Ana").Return(nil)

	applied := false
	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
		Old:      priceMap(10, 11, 12, 13),
		New:      priceMap(15, 11, 12, 13),
		Apply: func(ctx context.Context) error {
			applied = true
			return nil
		},
	}, actor)

	require.NoError(t, err)
	assert.True(t, applied)
	// The database trigger owns the record on this path.
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	session.AssertExpectations(t)
}

func TestRecordChange_AnnounceFailureFallsBackToManualWrite(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	actor := domain.Actor{ID: "user-1", Name: "Ana"}
	session.On("Announce", mock.Anything, "user-1", "Ana").Return(errors.New("set_config not permitted"))

	var captured *domain.AuditRecord
	auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.AuditRecord)
		}).
		Return(nil)

	old := priceMap(10, 11, 12, 13)
	updated := priceMap(15, 11, 12, 13)

	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
		Old:      old,
		New:      updated,
		Apply:    func(ctx context.Context) error { return nil },
	}, actor)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "prod-1", captured.EntityID)
	assert.Equal(t, domain.AuditActionUpdate, captured.Action)
	assert.Equal(t, "user-1", captured.ActorID)
	assert.Equal(t, "Ana", captured.ActorName)
	assert.Equal(t, []string{"price_dealer_cash"}, captured.ChangedFields)
	// Snapshots carry all audited fields, not only the changed one.
	assert.Equal(t, old, captured.OldValues)
	assert.Equal(t, updated, captured.NewValues)
	assert.False(t, captured.RecordedAt.IsZero())
}

func TestRecordChange_NoOpDiffWritesNothing(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	same := priceMap(10, 11, 12, 13)
	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
		Old:      same,
		New:      priceMap(10, 11, 12, 13),
		Apply:    func(ctx context.Context) error { return nil },
	}, domain.Actor{ID: "user-1"})

	require.NoError(t, err)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordChange_ApplyFailureAbortsAudit(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	applyErr := errors.New("duplicate key")
	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
		Old:      priceMap(10, 11, 12, 13),
		New:      priceMap(99, 11, 12, 13),
		Apply:    func(ctx context.Context) error { return applyErr },
	}, domain.Actor{ID: "user-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, applyErr)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordChange_AuditWriteFailureDoesNotFailMutation(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit_log insert failed"))

	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
		Old:      priceMap(10, 11, 12, 13),
		New:      priceMap(99, 11, 12, 13),
		Apply:    func(ctx context.Context) error { return nil },
	}, domain.Actor{ID: "user-1"})

	// The price change already landed; a lost audit record is logged, not
	// surfaced as a failure.
	require.NoError(t, err)
	auditRepo.AssertExpectations(t)
}

func TestRecordChange_CreateActionAgainstZeroBaseline(t *testing.T) {
	session := new(MockSessionContext)
	auditRepo := new(MockAuditRepository)
	recorder := newTestRecorder(session, auditRepo)

	session.On("Announce", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	var captured *domain.AuditRecord
	auditRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.AuditRecord)
		}).
		Return(nil)

	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionCreate,
		Old:      priceMap(0, 0, 0, 0),
		New:      priceMap(10, 0, 12, 0),
		Apply:    func(ctx context.Context) error { return nil },
	}, domain.Actor{ID: "user-1"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, domain.AuditActionCreate, captured.Action)
	assert.Equal(t, []string{"price_dealer_cash", "price_hotel_cash"}, captured.ChangedFields)
}

func TestRecordChange_MissingApplyIsRejected(t *testing.T) {
	recorder := newTestRecorder(new(MockSessionContext), new(MockAuditRepository))

	err := recorder.RecordChange(context.Background(), Change{
		EntityID: "prod-1",
		Action:   domain.AuditActionUpdate,
	}, domain.Actor{ID: "user-1"})

	assert.Error(t, err)
}
