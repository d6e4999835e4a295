package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
	"github.com/farmdesk/farmdesk/internal/service/logger"
)

// strategy is the audit persistence path resolved once per RecordChange
// call, based on the outcome of the session-context announcement.
type strategy int

const (
	// triggerAssisted relies on a server-side trigger to synthesize the
	// audit record atomically with the entity update.
	triggerAssisted strategy = iota
	// manualFallback computes the diff client-side and writes the audit
	// record explicitly after the entity update. Not atomic: a crash
	// between the two writes leaves the update applied but unaudited.
	manualFallback
)

// Change describes one audited mutation: the entity it touches, the full
// before/after snapshots of the audited fields, and the mutation itself.
type Change struct {
	EntityID string
	Action   domain.AuditAction
	Old      map[string]interface{}
	New      map[string]interface{}

	// Apply performs the entity update against the source of truth.
	Apply func(ctx context.Context) error
}

// Recorder persists field-level change records for priced entities.
// Postcondition on either path: an audit record exists iff the diff of
// the audited fields is non-empty.
type Recorder struct {
	session       ports.SessionContext
	auditRepo     ports.AuditRepository
	auditedFields []string
	log           logger.Logger

	// Guards announce+apply so two actors cannot interleave their
	// announcement and update on the shared session connection.
	mu sync.Mutex
}

// NewRecorder creates an audit recorder for a fixed set of audited fields
func NewRecorder(session ports.SessionContext, auditRepo ports.AuditRepository, auditedFields []string, log logger.Logger) *Recorder {
	return &Recorder{
		session:       session,
		auditRepo:     auditRepo,
		auditedFields: auditedFields,
		log:           log,
	}
}

// RecordChange applies the entity update and ensures its audit trail.
// The trigger-assisted path is preferred; a failed announcement selects
// the manual fallback. On the fallback path an audit-write failure is
// logged and swallowed: it never rolls back or re-fails the already
// applied business mutation.
func (r *Recorder) RecordChange(ctx context.Context, change Change, actor domain.Actor) error {
	if change.Apply == nil {
		return fmt.Errorf("change has no apply function")
	}

	path := triggerAssisted

	r.mu.Lock()
	if err := r.session.Announce(ctx, actor.ID, actor.Name); err != nil {
		path = manualFallback
		r.log.Warn(ctx, "session-context announce failed, using manual audit path", map[string]interface{}{
			"entity_id": change.EntityID,
			"actor_id":  actor.ID,
			"error":     err.Error(),
		})
	}

	if err := change.Apply(ctx); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to apply entity update: %w", err)
	}
	r.mu.Unlock()

	if path == triggerAssisted {
		// The trigger writes the record from the session context and the
		// row-level before/after values, and skips no-op updates itself.
		return nil
	}

	changed := Diff(change.Old, change.New, r.auditedFields)
	if len(changed) == 0 {
		return nil
	}

	record := domain.NewAuditRecord(change.EntityID, change.Action, actor, changed, change.Old, change.New)
	if err := r.auditRepo.Create(ctx, record); err != nil {
		// The entity update already succeeded; a lost audit record is an
		// accepted, logged gap rather than a failure of the mutation.
		r.log.Error(ctx, "audit record write failed after entity update", err, map[string]interface{}{
			"entity_id":      change.EntityID,
			"actor_id":       actor.ID,
			"changed_fields": changed,
		})
	}

	return nil
}
