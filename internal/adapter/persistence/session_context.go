package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/farmdesk/farmdesk/internal/ports"
)

// PostgresSessionContext announces the acting user to the database
// session via set_config, so the audit trigger on priced tables can
// attribute row changes. The announcement and the following entity
// update must land on the same connection: the recorder serializes
// announce+apply pairs, and the pool behind this handle is expected to
// be session-pinned (pool of one, or pgbouncer in session mode).
type PostgresSessionContext struct {
	db *sql.DB
}

// NewPostgresSessionContext creates a session-context announcer
func NewPostgresSessionContext(db *sql.DB) ports.SessionContext {
	return &PostgresSessionContext{db: db}
}

// Announce sets the actor identity in the session configuration
func (s *PostgresSessionContext) Announce(ctx context.Context, actorID, actorName string) error {
	query := `SELECT set_config('audit.actor_id', $1, false), set_config('audit.actor_name', $2, false)`

	if _, err := s.db.ExecContext(ctx, query, actorID, actorName); err != nil {
		return fmt.Errorf("failed to announce session context: %w", err)
	}

	return nil
}
