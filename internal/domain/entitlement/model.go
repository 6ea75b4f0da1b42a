package entitlement

import "time"

// Entitlement is an activation record produced by a completed, provider-confirmed
// payment. Any active record exempts its account from the free-tier project quota.
type Entitlement struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Active          bool      `json:"active"`
	ProviderRef     string    `json:"provider_ref"`
	SubscriptionRef string    `json:"subscription_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Status summarizes an account's entitlement for display.
type Status struct {
	AccountID string `json:"account_id"`
	Entitled  bool   `json:"entitled"`
	Plan      string `json:"plan"`
}

const (
	PlanFree = "free"
	PlanPro  = "pro"
)
