package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/repository"
	"github.com/stretchr/testify/require"
)

func newRevision(note, projectID string) *revision.Revision {
	return &revision.Revision{
		ID:        ulid.Make().String(),
		ProjectID: projectID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRevisionRepository_LimitEnforced(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRevisionRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	seedProject(t, db, "p1", "acct1", 3)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateWithinLimit(ctx, newRevision(fmt.Sprintf("note %d", i), "p1")))
	}

	err := repo.CreateWithinLimit(ctx, newRevision("fourth", "p1"))
	require.ErrorIs(t, err, repository.ErrLimitReached)

	n, err := repo.Count(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRevisionRepository_UnknownProjectRefused(t *testing.T) {
	db := NewTestDB(t)
	err := NewRevisionRepository(db).CreateWithinLimit(context.Background(), newRevision("x", "missing"))
	require.ErrorIs(t, err, repository.ErrLimitReached)
}

func TestRevisionRepository_ListOldestFirst(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRevisionRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	seedProject(t, db, "p1", "acct1", 5)

	base := time.Now().UTC()
	inserts := []struct {
		note   string
		offset time.Duration
	}{
		{"third", 3 * time.Minute},
		{"first", time.Minute},
		{"second", 2 * time.Minute},
	}
	for _, in := range inserts {
		rev := newRevision(in.note, "p1")
		rev.CreatedAt = base.Add(in.offset)
		require.NoError(t, repo.CreateWithinLimit(ctx, rev))
	}

	list, err := repo.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "first", list[0].Note)
	require.Equal(t, "second", list[1].Note)
	require.Equal(t, "third", list[2].Note)
}

func TestRevisionRepository_ConcurrentLimitNeverExceeded(t *testing.T) {
	db := newFileDB(t)
	repo := NewRevisionRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	seedProject(t, db, "p1", "acct1", 3)

	const attempts = 25
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateWithinLimit(ctx, newRevision(fmt.Sprintf("note %d", i), "p1"))
			if err != nil && !errors.Is(err, repository.ErrLimitReached) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 3, created)
	n, err := repo.Count(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
