package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/farmdesk/farmdesk/internal/service/logger"
)

// Source tags where fetched data came from
type Source string

const (
	// SourceLive means the loader succeeded and the cache was refreshed
	SourceLive Source = "live"
	// SourceCache means stale data was served from the store
	SourceCache Source = "cache"
	// SourceEmpty means neither the loader nor the cache had data
	SourceEmpty Source = "empty"
)

// Loader fetches the live value from the source of truth.
type Loader[T any] func(ctx context.Context) (T, error)

// Result carries fetched data and its provenance. StoredAt is set only
// for cache-sourced results, so screens can render a staleness indicator.
type Result[T any] struct {
	Data     T         `json:"data"`
	Source   Source    `json:"source"`
	StoredAt time.Time `json:"stored_at,omitempty"`
}

// entry is the persisted envelope around a cached payload.
type entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Repository orchestrates cache-aside reads: decide cache vs. live fetch,
// populate the cache on success, degrade to the cache on failure. Loader
// errors never propagate to callers; the repository degrades instead.
type Repository struct {
	store   KeyValueStore
	monitor ConnectivityMonitor
	log     logger.Logger
}

// NewRepository creates a read-through repository
func NewRepository(store KeyValueStore, monitor ConnectivityMonitor, log logger.Logger) *Repository {
	return &Repository{
		store:   store,
		monitor: monitor,
		log:     log,
	}
}

// Fetch resolves key through the repository:
//
//  1. Offline with a cache hit: return cached data without calling the
//     loader. Offline with no cache entry still attempts the live fetch,
//     since connectivity signals can be wrong.
//  2. Loader success: refresh the cache, return live data.
//  3. Loader failure: return cached data if present, else the zero value
//     tagged empty. Repeated failures with no prior success for the key
//     always yield empty; that is a valid terminal state, not an error.
//
// The cache is only written after a successful live fetch, so a failed
// fetch never poisons it with partial data.
func Fetch[T any](ctx context.Context, r *Repository, key string, loader Loader[T]) Result[T] {
	if !r.monitor.IsOnline() {
		if result, ok := cachedResult[T](ctx, r, key); ok {
			return result
		}
	}

	data, err := loader(ctx)
	if err == nil {
		r.writeEntry(ctx, key, data)
		return Result[T]{Data: data, Source: SourceLive}
	}

	r.log.Warn(ctx, "live fetch failed, degrading to cache", map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})

	if result, ok := cachedResult[T](ctx, r, key); ok {
		return result
	}

	var zero T
	return Result[T]{Data: zero, Source: SourceEmpty}
}

// cachedResult reads and decodes the entry for key. A store failure or a
// payload that no longer matches T's shape (a stale cache from a prior
// schema version) is treated as cache-absent, never as an error.
func cachedResult[T any](ctx context.Context, r *Repository, key string) (Result[T], bool) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.log.Warn(ctx, "cache read failed, treating as absent", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return Result[T]{}, false
	}
	if !ok {
		return Result[T]{}, false
	}

	var ent entry
	if err := json.Unmarshal(raw, &ent); err != nil {
		return Result[T]{}, false
	}

	var data T
	if err := json.Unmarshal(ent.Payload, &data); err != nil {
		r.log.Warn(ctx, "cached payload no longer matches schema, treating as absent", map[string]interface{}{
			"key": key,
		})
		return Result[T]{}, false
	}

	return Result[T]{Data: data, Source: SourceCache, StoredAt: ent.StoredAt}, true
}

// writeEntry persists data under key. Write failures are logged and
// swallowed: a full or unreachable store must not fail the live read.
func (r *Repository) writeEntry(ctx context.Context, key string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		r.log.Warn(ctx, "cache write skipped, payload not serializable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	raw, err := json.Marshal(entry{Payload: payload, StoredAt: time.Now().UTC()})
	if err != nil {
		return
	}

	if err := r.store.Set(ctx, key, raw); err != nil {
		r.log.Warn(ctx, "cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
