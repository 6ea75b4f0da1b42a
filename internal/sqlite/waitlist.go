package sqlite

import (
	"context"

	"github.com/rpggio/revtrack/internal/domain/waitlist"
)

// WaitlistRepository implements waitlist.Repository for SQLite
type WaitlistRepository struct {
	db *DB
}

// NewWaitlistRepository creates a new WaitlistRepository
func NewWaitlistRepository(db *DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Add inserts entry; an existing email leaves the original row untouched.
func (r *WaitlistRepository) Add(ctx context.Context, entry *waitlist.Entry) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO waitlist (email, created_at) VALUES (?, ?) ON CONFLICT(email) DO NOTHING`,
		entry.Email, entry.CreatedAt,
	)
	if err != nil {
		return false, storeErr("add waitlist entry", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("get rows affected", err)
	}
	return n > 0, nil
}
