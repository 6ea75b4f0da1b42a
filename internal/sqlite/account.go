package sqlite

import (
	"context"
	"database/sql"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/repository"
)

// AccountRepository implements account.Repository for SQLite
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Upsert inserts the account or refreshes its email when a non-empty one is
// given. created_at is kept from the first insert.
func (r *AccountRepository) Upsert(ctx context.Context, acct *account.Account) error {
	query := `
		INSERT INTO accounts (id, email, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE accounts.email END,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		acct.ID,
		acct.Email,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
	return storeErr("upsert account", err)
}

// Get retrieves an account by ID
func (r *AccountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, email, created_at, updated_at
		FROM accounts
		WHERE id = ?
	`

	var acct account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID,
		&acct.Email,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get account", err)
	}

	return &acct, nil
}
