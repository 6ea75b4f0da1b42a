package project

import (
	"context"

	"github.com/rpggio/revtrack/internal/domain/account"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	// CreateWithinQuota inserts proj only while the owner has fewer than quota
	// projects, as a single conditional write. It returns repository.ErrLimitReached
	// when the condition fails.
	CreateWithinQuota(ctx context.Context, proj *Project, quota int) error
	CountByAccount(ctx context.Context, accountID string) (int, error)
	Get(ctx context.Context, accountID, id string) (*Project, error)
	List(ctx context.Context, accountID string) ([]ProjectSummary, error)
}

// EntitlementReader reports active entitlement counts.
type EntitlementReader interface {
	CountActive(ctx context.Context, accountID string) (int, error)
}

// AccountRepository mirrors the owning account before a project insert.
type AccountRepository interface {
	Upsert(ctx context.Context, acct *account.Account) error
}
