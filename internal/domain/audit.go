package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the kind of mutation an audit record describes
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
)

// Actor identifies the user performing an audited mutation
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuditRecord represents one field-level change record on a priced entity.
// ChangedFields is never empty: a record is not created for a no-op update.
// OldValues/NewValues hold the full snapshot of the audited fields, not
// only the changed ones.
type AuditRecord struct {
	ID            string                 `json:"id"`
	EntityID      string                 `json:"entity_id"`
	Action        AuditAction            `json:"action"`
	ActorID       string                 `json:"actor_id"`
	ActorName     string                 `json:"actor_name"`
	ChangedFields []string               `json:"changed_fields"`
	OldValues     map[string]interface{} `json:"old_values"`
	NewValues     map[string]interface{} `json:"new_values"`
	RecordedAt    time.Time              `json:"recorded_at"`
}

// NewAuditRecord creates an audit record for a qualifying mutation
func NewAuditRecord(entityID string, action AuditAction, actor Actor, changedFields []string, oldValues, newValues map[string]interface{}) *AuditRecord {
	return &AuditRecord{
		ID:            uuid.New().String(),
		EntityID:      entityID,
		Action:        action,
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ChangedFields: changedFields,
		OldValues:     oldValues,
		NewValues:     newValues,
		RecordedAt:    time.Now(),
	}
}
