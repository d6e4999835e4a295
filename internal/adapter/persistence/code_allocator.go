package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/farmdesk/farmdesk/internal/ports"
)

// PostgresCodeAllocator mints human-readable entity codes from a
// per-category counter table. The upsert makes the counter increment
// atomic, so codes are unique within a category even under concurrent
// creates.
type PostgresCodeAllocator struct {
	db *sql.DB
}

// NewPostgresCodeAllocator creates a new code allocator
func NewPostgresCodeAllocator(db *sql.DB) ports.CodeAllocator {
	return &PostgresCodeAllocator{db: db}
}

// Allocate returns the next code for a category, e.g. "PRD-000042".
// Allocation failure is fatal to the enclosing create.
func (a *PostgresCodeAllocator) Allocate(ctx context.Context, categoryCode string) (string, error) {
	if categoryCode == "" {
		return "", fmt.Errorf("category code is required")
	}

	query := `
		INSERT INTO entity_codes (category, last_value)
		VALUES ($1, 1)
		ON CONFLICT (category)
		DO UPDATE SET last_value = entity_codes.last_value + 1
		RETURNING last_value
	`

	var next int64
	if err := a.db.QueryRowContext(ctx, query, categoryCode).Scan(&next); err != nil {
		return "", fmt.Errorf("failed to allocate code for category %s: %w", categoryCode, err)
	}

	return fmt.Sprintf("%s-%06d", categoryCode, next), nil
}
