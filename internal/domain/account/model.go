package account

import (
	"strings"
	"time"
)

// Account mirrors an identity-provider subject in the store.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated caller, resolved once per request and passed
// explicitly into every gate.
type Principal struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// Authenticated reports whether the principal carries an account identity.
func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.AccountID) != ""
}
