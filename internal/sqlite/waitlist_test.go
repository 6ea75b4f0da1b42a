package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/stretchr/testify/require"
)

func TestWaitlistRepository_AddDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()

	added, err := repo.Add(ctx, &waitlist.Entry{Email: "jane@example.com", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.True(t, added)

	added, err = repo.Add(ctx, &waitlist.Entry{Email: "jane@example.com", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.False(t, added)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM waitlist").Scan(&n))
	require.Equal(t, 1, n)
}
