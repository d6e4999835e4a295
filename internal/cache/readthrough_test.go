package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdesk/farmdesk/internal/service/logger"
)

type priceRow struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// failingStore simulates an unreachable or full cache backend.
type failingStore struct {
	getErr error
	setErr error
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, s.getErr
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return s.setErr
}

func (s *failingStore) Remove(ctx context.Context, key string) error {
	return nil
}

func TestFetch_LiveSuccessPopulatesCache(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())

	rows := []priceRow{{Name: "eggs", Price: 3.5}}
	result := Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return rows, nil
	})

	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, rows, result.Data)
	assert.True(t, result.StoredAt.IsZero())
	assert.Equal(t, 1, store.Len())
}

func TestFetch_LoaderFailureServesCache(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())
	ctx := context.Background()

	rows := []priceRow{{Name: "milk", Price: 2.0}}
	Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return rows, nil
	})

	result := Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("connection refused")
	})

	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, rows, result.Data)
	assert.False(t, result.StoredAt.IsZero())
}

func TestFetch_LoaderFailureWithoutCacheIsEmpty(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), ForcedMonitor{Online: true}, logger.NewNop())

	result := Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("connection refused")
	})

	assert.Equal(t, SourceEmpty, result.Source)
	assert.Nil(t, result.Data)
}

func TestFetch_RepeatedFailuresStayEmpty(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), ForcedMonitor{Online: true}, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := Fetch(ctx, repo, "orders_all", func(ctx context.Context) ([]priceRow, error) {
			return nil, errors.New("timeout")
		})
		assert.Equal(t, SourceEmpty, result.Source)
	}
}

func TestFetch_FailureNeverPoisonsCache(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())

	Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return []priceRow{{Name: "partial"}}, errors.New("read interrupted")
	})

	assert.Equal(t, 0, store.Len())
}

func TestFetch_OfflineServesCacheWithoutLoader(t *testing.T) {
	store := NewMemoryStore()
	online := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())
	ctx := context.Background()

	rows := []priceRow{{Name: "hay", Price: 12.0}}
	Fetch(ctx, online, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return rows, nil
	})

	offline := NewRepository(store, ForcedMonitor{Online: false}, logger.NewNop())
	loaderCalled := false
	result := Fetch(ctx, offline, "products_all", func(ctx context.Context) ([]priceRow, error) {
		loaderCalled = true
		return nil, errors.New("should not be called")
	})

	assert.False(t, loaderCalled)
	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, rows, result.Data)
}

func TestFetch_OfflineWithoutCacheStillTriesLoader(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), ForcedMonitor{Online: false}, logger.NewNop())

	rows := []priceRow{{Name: "grain", Price: 8.0}}
	result := Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return rows, nil
	})

	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, rows, result.Data)
}

func TestFetch_StaleSchemaPayloadTreatedAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// An entry written by an older build whose payload shape no longer
	// decodes into the current type.
	raw, err := json.Marshal(entry{Payload: json.RawMessage(`{"totally":"different"}`)})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "products_all", raw))

	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())
	result := Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("backend down")
	})

	assert.Equal(t, SourceEmpty, result.Source)
}

func TestFetch_CorruptEnvelopeTreatedAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "products_all", []byte("not json")))

	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())
	result := Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("backend down")
	})

	assert.Equal(t, SourceEmpty, result.Source)
}

func TestFetch_StoreReadFailureTreatedAsAbsent(t *testing.T) {
	store := &failingStore{getErr: errors.New("redis: connection pool timeout")}
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())

	result := Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("backend down")
	})

	assert.Equal(t, SourceEmpty, result.Source)
}

func TestFetch_StoreWriteFailureDoesNotFailLiveRead(t *testing.T) {
	store := &failingStore{setErr: errors.New("redis: OOM")}
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())

	rows := []priceRow{{Name: "eggs", Price: 3.5}}
	result := Fetch(context.Background(), repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return rows, nil
	})

	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, rows, result.Data)
}

func TestFetch_LiveRefreshOverwritesStaleEntry(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store, ForcedMonitor{Online: true}, logger.NewNop())
	ctx := context.Background()

	Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return []priceRow{{Name: "eggs", Price: 3.5}}, nil
	})

	updated := []priceRow{{Name: "eggs", Price: 4.0}}
	Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return updated, nil
	})

	result := Fetch(ctx, repo, "products_all", func(ctx context.Context) ([]priceRow, error) {
		return nil, errors.New("backend down")
	})

	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, updated, result.Data)
}
