package entitlement

import "context"

// Reader answers whether an account is entitled. The project gate depends only on this.
type Reader interface {
	CountActive(ctx context.Context, accountID string) (int, error)
}

// Repository provides persistence for entitlement records.
type Repository interface {
	Reader
	// Insert stores rec unless a record with the same provider ref exists. It reports
	// whether a row was written.
	Insert(ctx context.Context, rec *Entitlement) (bool, error)
	DeactivateBySubscription(ctx context.Context, subscriptionRef string) ([]string, error)
}
