package events

import (
	"time"

	"github.com/google/uuid"
)

// Event codes emitted by the qualification funnel.
const (
	EventLeadCaptured = "lead.captured"
)

// NewLeadCapturedEvent announces a completed lead to the rest of the system
// (notification feed, mail worker).
func NewLeadCapturedEvent(leadId, sessionId uuid.UUID, company, entryPath string) Event {
	return BaseEvent{
		Type: EventLeadCaptured,
		Data: map[string]interface{}{
			"lead_id":    leadId.String(),
			"session_id": sessionId.String(),
			"company":    company,
			"entry_path": entryPath,
		},
		OccurredAt: time.Now(),
	}
}
