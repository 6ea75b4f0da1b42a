package project

import (
	"fmt"
	"time"

	"github.com/rpggio/revtrack/internal/domain/scope"
)

// Project is a client engagement with a fixed revision allowance.
type Project struct {
	ID                     string    `json:"id"`
	AccountID              string    `json:"account_id"`
	Name                   string    `json:"name"`
	ClientName             string    `json:"client_name"`
	Scope                  string    `json:"scope"`
	RevisionLimit          int       `json:"revision_limit"`
	ExtraRevisionCostCents int64     `json:"extra_revision_cost_cents"`
	ShareToken             string    `json:"share_token"`
	CreatedAt              time.Time `json:"created_at"`
}

// ExtraRevisionCost formats the informational per-revision overage price.
func (p Project) ExtraRevisionCost() string {
	return FormatCents(p.ExtraRevisionCostCents)
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ClientName    string       `json:"client_name"`
	RevisionLimit int          `json:"revision_limit"`
	RevisionCount int          `json:"revision_count"`
	Status        scope.Status `json:"status"`
	ShareToken    string       `json:"share_token"`
	CreatedAt     time.Time    `json:"created_at"`
}

// FormatCents renders cents as a decimal amount with two places.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
