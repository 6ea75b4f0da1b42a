package waitlist_test

import (
	"context"
	"testing"

	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/rpggio/revtrack/internal/repository"
	"github.com/rpggio/revtrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got, err := waitlist.Normalize("  Jane.Doe@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "jane.doe@example.com", got)

	for _, bad := range []string{"", "   ", "jane", "jane@", "@example.com", "Jane <jane@example.com>", "jane@localhost"} {
		_, err := waitlist.Normalize(bad)
		require.ErrorIs(t, err, waitlist.ErrInvalidInput, bad)
	}
}

func TestWaitlistService_JoinTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.WaitlistRepository{}
	repo.On("Add", ctx, mock.MatchedBy(func(e *waitlist.Entry) bool {
		return e.Email == "jane@example.com"
	})).Return(true, nil).Once()
	repo.On("Add", ctx, mock.Anything).Return(false, nil).Once()

	svc := waitlist.NewService(repo, nil)

	_, err := svc.Join(ctx, "jane@example.com")
	require.NoError(t, err)
	entry, err := svc.Join(ctx, "JANE@example.com")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", entry.Email)
	repo.AssertExpectations(t)
}

func TestWaitlistService_InvalidEmailNeverStored(t *testing.T) {
	repo := &mocks.WaitlistRepository{}
	svc := waitlist.NewService(repo, nil)

	_, err := svc.Join(context.Background(), "not an email")
	require.ErrorIs(t, err, waitlist.ErrInvalidInput)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestWaitlistService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.WaitlistRepository{}
	repo.On("Add", ctx, mock.Anything).Return(false, repository.ErrUnavailable)

	_, err := waitlist.NewService(repo, nil).Join(ctx, "a@b.co")
	require.ErrorIs(t, err, repository.ErrUnavailable)
}
