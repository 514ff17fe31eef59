package domain

import "time"

// AuditAction identifies the lifecycle event an audit entry records.
type AuditAction string

const (
	AuditCreated       AuditAction = "CREATED"
	AuditUpdated       AuditAction = "UPDATED"
	AuditPosted        AuditAction = "POSTED"
	AuditCancelled     AuditAction = "CANCELLED"
	AuditDeleted       AuditAction = "DELETED"
	AuditStatusChanged AuditAction = "STATUS_CHANGED"
)

// AuditEntry is one append-only record of a document mutation. Entries are
// never updated or deleted through the engine; they outlive the document they
// describe (deleting a draft keeps its trail).
type AuditEntry struct {
	AuditID     string         `json:"auditID"`    // ULID; sorts by creation time
	DocumentID  string         `json:"documentID"` // Document reference, no FK cascade
	Action      AuditAction    `json:"action"`
	Description string         `json:"description"`
	ActorID     string         `json:"actorID"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Snapshot    map[string]any `json:"snapshot,omitempty"` // Optional before/after values
}
