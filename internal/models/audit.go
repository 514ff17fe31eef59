package models

import "time"

// AuditEntry mirrors the audit_entries table. Snapshot is stored as JSONB.
type AuditEntry struct {
	AuditID     string         `db:"audit_id"`
	DocumentID  string         `db:"document_id"`
	Action      string         `db:"action"`
	Description string         `db:"description"`
	ActorID     string         `db:"actor_id"`
	OccurredAt  time.Time      `db:"occurred_at"`
	Snapshot    map[string]any `db:"snapshot"`
}
