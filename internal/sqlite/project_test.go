package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(id, accountID string) *project.Project {
	return &project.Project{
		ID:                     id,
		AccountID:              accountID,
		Name:                   "Website",
		ClientName:             "Acme",
		Scope:                  "Home page",
		RevisionLimit:          3,
		ExtraRevisionCostCents: 4999,
		ShareToken:             project.NewShareToken(),
		CreatedAt:              time.Now().UTC(),
	}
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")

	proj := newProject("p1", "acct1")
	require.NoError(t, repo.Create(ctx, proj))

	got, err := repo.Get(ctx, "acct1", "p1")
	require.NoError(t, err)
	require.Equal(t, proj.Name, got.Name)
	require.Equal(t, proj.ClientName, got.ClientName)
	require.Equal(t, 3, got.RevisionLimit)
	require.Equal(t, int64(4999), got.ExtraRevisionCostCents)
	require.Equal(t, proj.ShareToken, got.ShareToken)

	_, err = repo.Get(ctx, "acct1", "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_AccountIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")
	seedAccount(t, db, "acct2")

	require.NoError(t, repo.Create(ctx, newProject("p1", "acct1")))

	_, err := repo.Get(ctx, "acct2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx, "acct2")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProjectRepository_CreateRequiresAccount(t *testing.T) {
	db := NewTestDB(t)
	err := NewProjectRepository(db).Create(context.Background(), newProject("p1", "ghost"))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestProjectRepository_CheckViolationIsConstraint(t *testing.T) {
	db := NewTestDB(t)
	seedAccount(t, db, "acct1")

	proj := newProject("p1", "acct1")
	proj.ExtraRevisionCostCents = -1
	err := NewProjectRepository(db).Create(context.Background(), proj)
	require.ErrorIs(t, err, repository.ErrConstraint)
	require.NotErrorIs(t, err, repository.ErrUnavailable)
}

func TestProjectRepository_CreateWithinQuota(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")

	require.NoError(t, repo.CreateWithinQuota(ctx, newProject("p1", "acct1"), 1))

	err := repo.CreateWithinQuota(ctx, newProject("p2", "acct1"), 1)
	require.ErrorIs(t, err, repository.ErrLimitReached)

	n, err := repo.CountByAccount(ctx, "acct1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, repo.CreateWithinQuota(ctx, newProject("p3", "acct1"), 2))
}

func TestProjectRepository_ConcurrentQuotaNeverExceeded(t *testing.T) {
	db := newFileDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")

	const attempts = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		refused int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateWithinQuota(ctx, newProject(fmt.Sprintf("p%d", i), "acct1"), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, repository.ErrLimitReached):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, attempts-1, refused)

	n, err := repo.CountByAccount(ctx, "acct1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestProjectRepository_ListWithRevisionCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	revs := NewRevisionRepository(db)
	ctx := context.Background()
	seedAccount(t, db, "acct1")

	older := newProject("p1", "acct1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newProject("p2", "acct1")))

	for i := 0; i < 2; i++ {
		require.NoError(t, revs.CreateWithinLimit(ctx, newRevision(fmt.Sprintf("r%d", i), "p1")))
	}

	list, err := repo.List(ctx, "acct1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "p2", list[0].ID)
	require.Equal(t, 0, list[0].RevisionCount)
	require.Equal(t, "p1", list[1].ID)
	require.Equal(t, 2, list[1].RevisionCount)
}
