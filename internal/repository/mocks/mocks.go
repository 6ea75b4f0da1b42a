package mocks

import (
	"context"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/stretchr/testify/mock"
)

var (
	_ account.Repository         = (*AccountRepository)(nil)
	_ project.Repository         = (*ProjectRepository)(nil)
	_ project.AccountRepository  = (*AccountRepository)(nil)
	_ project.EntitlementReader  = (*EntitlementRepository)(nil)
	_ revision.Repository        = (*RevisionRepository)(nil)
	_ entitlement.Repository     = (*EntitlementRepository)(nil)
	_ activity.Repository        = (*ActivityRepository)(nil)
	_ share.Store                = (*ShareStore)(nil)
	_ waitlist.Repository        = (*WaitlistRepository)(nil)
)

// AccountRepository is a mock for account.Repository.
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Upsert(ctx context.Context, acct *account.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *AccountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	args := m.Called(ctx, id)
	if acct, ok := args.Get(0).(*account.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) CreateWithinQuota(ctx context.Context, proj *project.Project, quota int) error {
	args := m.Called(ctx, proj, quota)
	return args.Error(0)
}

func (m *ProjectRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, accountID, id string) (*project.Project, error) {
	args := m.Called(ctx, accountID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, accountID string) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, accountID)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RevisionRepository is a mock for revision.Repository.
type RevisionRepository struct {
	mock.Mock
}

func (m *RevisionRepository) Count(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *RevisionRepository) CreateWithinLimit(ctx context.Context, rev *revision.Revision) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *RevisionRepository) List(ctx context.Context, projectID string) ([]revision.Revision, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]revision.Revision); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// EntitlementRepository is a mock for entitlement.Repository.
type EntitlementRepository struct {
	mock.Mock
}

func (m *EntitlementRepository) CountActive(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *EntitlementRepository) Insert(ctx context.Context, rec *entitlement.Entitlement) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *EntitlementRepository) DeactivateBySubscription(ctx context.Context, subscriptionRef string) ([]string, error) {
	args := m.Called(ctx, subscriptionRef)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, accountID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, accountID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, accountID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, accountID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ShareStore is a mock for share.Store.
type ShareStore struct {
	mock.Mock
}

func (m *ShareStore) SnapshotByToken(ctx context.Context, token string) (*share.Snapshot, error) {
	args := m.Called(ctx, token)
	if snap, ok := args.Get(0).(*share.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

// WaitlistRepository is a mock for waitlist.Repository.
type WaitlistRepository struct {
	mock.Mock
}

func (m *WaitlistRepository) Add(ctx context.Context, entry *waitlist.Entry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}
