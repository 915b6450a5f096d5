package domain

import "time"

// Event types published on the change-notification boundary. Consumers
// that previously relied on push subscriptions listen for these and
// re-fetch through the query API.
const (
	EventCreditsAdded    = "ledger.credited"
	EventCreditsDeducted = "ledger.debited"
	EventImportCompleted = "import.completed"
	EventDealCreated     = "deal.created"
)

// ChangeEvent notifies subscribers that a record changed.
type ChangeEvent struct {
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
