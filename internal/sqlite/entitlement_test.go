package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/stretchr/testify/require"
)

func newEntitlement(accountID, providerRef, subRef string) *entitlement.Entitlement {
	return &entitlement.Entitlement{
		ID:              ulid.Make().String(),
		AccountID:       accountID,
		Active:          true,
		ProviderRef:     providerRef,
		SubscriptionRef: subRef,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestEntitlementRepository_InsertOncePerProviderRef(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntitlementRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")

	created, err := repo.Insert(ctx, newEntitlement("acct1", "cs_1", "sub_1"))
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.Insert(ctx, newEntitlement("acct1", "cs_1", "sub_1"))
	require.NoError(t, err)
	require.False(t, created)

	n, err := repo.CountActive(ctx, "acct1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestEntitlementRepository_DeactivateBySubscription(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntitlementRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	seedAccount(t, db, "acct2")

	_, err := repo.Insert(ctx, newEntitlement("acct1", "cs_1", "sub_1"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newEntitlement("acct2", "cs_2", "sub_2"))
	require.NoError(t, err)

	accounts, err := repo.DeactivateBySubscription(ctx, "sub_1")
	require.NoError(t, err)
	require.Equal(t, []string{"acct1"}, accounts)

	n, err := repo.CountActive(ctx, "acct1")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = repo.CountActive(ctx, "acct2")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	accounts, err = repo.DeactivateBySubscription(ctx, "sub_1")
	require.NoError(t, err)
	require.Empty(t, accounts)
}
