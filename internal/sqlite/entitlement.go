package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/revtrack/internal/domain/entitlement"
)

// EntitlementRepository implements entitlement.Repository for SQLite
type EntitlementRepository struct {
	db *DB
}

// NewEntitlementRepository creates a new EntitlementRepository
func NewEntitlementRepository(db *DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// CountActive returns the number of active entitlements for an account.
func (r *EntitlementRepository) CountActive(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entitlements WHERE account_id = ? AND active = 1`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, storeErr("count entitlements", err)
	}
	return n, nil
}

// Insert stores rec unless its provider ref is already recorded.
func (r *EntitlementRepository) Insert(ctx context.Context, rec *entitlement.Entitlement) (bool, error) {
	query := `
		INSERT INTO entitlements (id, account_id, active, provider_ref, subscription_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_ref) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.AccountID,
		rec.Active,
		rec.ProviderRef,
		rec.SubscriptionRef,
		rec.CreatedAt,
	)
	if err != nil {
		return false, storeErr("insert entitlement", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("get rows affected", err)
	}
	return rowsAffected > 0, nil
}

// DeactivateBySubscription flips active records for subscriptionRef and returns
// the distinct owning accounts.
func (r *EntitlementRepository) DeactivateBySubscription(ctx context.Context, subscriptionRef string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT account_id
		FROM entitlements
		WHERE subscription_ref = ? AND active = 1
		ORDER BY account_id
	`, subscriptionRef)
	if err != nil {
		return nil, storeErr("find entitlements", err)
	}

	accounts := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		accounts = append(accounts, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storeErr("iterate entitlement rows", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx,
		`UPDATE entitlements SET active = 0 WHERE subscription_ref = ? AND active = 1`, subscriptionRef,
	); err != nil {
		return nil, storeErr("deactivate entitlements", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit transaction", err)
	}
	return accounts, nil
}
