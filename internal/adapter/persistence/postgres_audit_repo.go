package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL.
// changed_fields is a text[] column; old/new values are JSONB snapshots
// of all audited fields.
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

// Create inserts a new audit record
func (r *PostgresAuditRepository) Create(ctx context.Context, record *domain.AuditRecord) error {
	query := `
		INSERT INTO audit_log (id, entity_id, action, actor_id, actor_name, changed_fields, old_values, new_values, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	oldJSON, err := json.Marshal(record.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old values: %w", err)
	}

	newJSON, err := json.Marshal(record.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new values: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.EntityID,
		string(record.Action),
		record.ActorID,
		record.ActorName,
		pq.Array(record.ChangedFields),
		oldJSON,
		newJSON,
		record.RecordedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	return nil
}

// ListByEntity retrieves audit records for an entity, newest first
func (r *PostgresAuditRepository) ListByEntity(ctx context.Context, entityID string, limit int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, entity_id, action, actor_id, actor_name, changed_fields, old_values, new_values, recorded_at
		FROM audit_log
		WHERE entity_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord

	for rows.Next() {
		var record domain.AuditRecord
		var oldJSON, newJSON []byte

		err := rows.Scan(
			&record.ID,
			&record.EntityID,
			&record.Action,
			&record.ActorID,
			&record.ActorName,
			pq.Array(&record.ChangedFields),
			&oldJSON,
			&newJSON,
			&record.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		if err := json.Unmarshal(oldJSON, &record.OldValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal old values: %w", err)
		}
		if err := json.Unmarshal(newJSON, &record.NewValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new values: %w", err)
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}

	return records, nil
}
