package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	projectID := "p1"
	entry1 := &activity.ActivityEntry{
		ProjectID:    &projectID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project",
		CreatedAt:    time.Now().UTC().Add(-time.Second),
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: activity.TypeQuotaExceeded,
		Summary:      "quota exceeded",
	}

	require.NoError(t, repo.Log(ctx, "acct1", entry1))
	require.NoError(t, repo.Log(ctx, "acct1", entry2))
	require.NotZero(t, entry2.ID)

	entries, err := repo.List(ctx, "acct1", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeQuotaExceeded, entries[0].ActivityType)
	require.Nil(t, entries[0].ProjectID)
	require.Equal(t, activity.TypeProjectCreated, entries[1].ActivityType)
	require.Equal(t, "p1", *entries[1].ProjectID)
}

func TestActivityRepository_FiltersAndAccountIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	p1 := "p1"
	require.NoError(t, repo.Log(ctx, "acct1", &activity.ActivityEntry{ProjectID: &p1, ActivityType: activity.TypeRevisionRecorded, Summary: "r1"}))
	require.NoError(t, repo.Log(ctx, "acct1", &activity.ActivityEntry{ProjectID: &p1, ActivityType: activity.TypeScopeExceeded, Summary: "refused"}))
	require.NoError(t, repo.Log(ctx, "acct2", &activity.ActivityEntry{ActivityType: activity.TypeEntitlementGranted, Summary: "pro"}))

	typ := activity.TypeScopeExceeded
	entries, err := repo.List(ctx, "acct1", activity.ListActivityOptions{ProjectID: &p1, ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "refused", entries[0].Summary)

	entries, err = repo.List(ctx, "acct2", activity.ListActivityOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "acct1", activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "r1", entries[0].Summary)
}
