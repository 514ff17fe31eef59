package dto

import (
	"time"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// AuditEntryResponse is the API shape of one audit trail record.
type AuditEntryResponse struct {
	AuditID     string             `json:"auditID"`
	DocumentID  string             `json:"documentID"`
	Action      domain.AuditAction `json:"action"`
	Description string             `json:"description"`
	ActorID     string             `json:"actorID"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Snapshot    map[string]any     `json:"snapshot,omitempty"`
}

// ToAuditEntryResponses converts domain audit entries to their API shape.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			AuditID:     e.AuditID,
			DocumentID:  e.DocumentID,
			Action:      e.Action,
			Description: e.Description,
			ActorID:     e.ActorID,
			OccurredAt:  e.OccurredAt,
			Snapshot:    e.Snapshot,
		}
	}
	return out
}
