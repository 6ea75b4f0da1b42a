package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeAccountEnsured     ActivityType = "account_ensured"
	TypeProjectCreated     ActivityType = "project_created"
	TypeQuotaExceeded      ActivityType = "quota_exceeded"
	TypeRevisionRecorded   ActivityType = "revision_recorded"
	TypeScopeExceeded      ActivityType = "scope_exceeded"
	TypeEntitlementGranted ActivityType = "entitlement_granted"
	TypeEntitlementRevoked ActivityType = "entitlement_revoked"
	TypeCheckoutStarted    ActivityType = "checkout_started"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	AccountID    string       `json:"account_id"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
