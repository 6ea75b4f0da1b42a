package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/revtrack/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestShareStore_SnapshotByToken(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	proj := seedProject(t, db, "p1", "acct1", 3)

	revs := NewRevisionRepository(db)
	first := newRevision("first", "p1")
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, revs.CreateWithinLimit(ctx, first))
	require.NoError(t, revs.CreateWithinLimit(ctx, newRevision("second", "p1")))

	snap, err := NewShareStore(db).SnapshotByToken(ctx, proj.ShareToken)
	require.NoError(t, err)
	require.Equal(t, "p1", snap.Project.ID)
	require.Len(t, snap.Revisions, 2)
	require.Equal(t, "first", snap.Revisions[0].Note)
	require.Equal(t, "second", snap.Revisions[1].Note)
}

func TestShareStore_UnknownToken(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewShareStore(db).SnapshotByToken(context.Background(), "0123456789abcdef0123456789abcdef")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestShareStore_LeavesDataUntouched(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	proj := seedProject(t, db, "p1", "acct1", 1)

	for i := 0; i < 3; i++ {
		_, err := NewShareStore(db).SnapshotByToken(ctx, proj.ShareToken)
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM revisions").Scan(&n))
	require.Zero(t, n)
}
