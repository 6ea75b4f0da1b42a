package account

import "context"

// Repository provides persistence for accounts.
type Repository interface {
	Upsert(ctx context.Context, acct *Account) error
	Get(ctx context.Context, id string) (*Account, error)
}
