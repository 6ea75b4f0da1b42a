package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/repository"
)

// DefaultFreeProjectLimit is the number of projects a free-tier account may own.
const DefaultFreeProjectLimit = 1

// Service implements the project-creation gate and project reads.
type Service struct {
	repo         Repository
	accounts     AccountRepository
	entitlements EntitlementReader
	activity     *activity.Recorder
	freeLimit    int
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFreeProjectLimit overrides DefaultFreeProjectLimit.
func WithFreeProjectLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.freeLimit = limit
		}
	}
}

// WithActivity records gate outcomes to the audit log.
func WithActivity(recorder *activity.Recorder) Option {
	return func(s *Service) {
		s.activity = recorder
	}
}

// NewService creates a new project service.
func NewService(repo Repository, accounts AccountRepository, entitlements EntitlementReader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		accounts:     accounts,
		entitlements: entitlements,
		freeLimit:    DefaultFreeProjectLimit,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FreeProjectLimit returns the configured free-tier cap.
func (s *Service) FreeProjectLimit() int {
	return s.freeLimit
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name              string
	ClientName        string
	Scope             string
	RevisionLimit     int
	ExtraRevisionCost float64
}

// Create runs the project-creation gate: entitlement check, free-tier quota check,
// account upsert, quota re-check and a conditional insert that the store refuses
// once the quota is reached.
func (s *Service) Create(ctx context.Context, p account.Principal, req CreateRequest) (*Project, error) {
	if !p.Authenticated() {
		return nil, account.ErrUnauthenticated
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	entitled, err := s.isEntitled(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		if err := s.checkQuota(ctx, p.AccountID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := s.accounts.Upsert(ctx, &account.Account{
		ID:        p.AccountID,
		Email:     strings.TrimSpace(p.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("upserting account: %w", err)
	}

	proj := &Project{
		ID:                     uuid.NewString(),
		AccountID:              p.AccountID,
		Name:                   strings.TrimSpace(req.Name),
		ClientName:             strings.TrimSpace(req.ClientName),
		Scope:                  req.Scope,
		RevisionLimit:          req.RevisionLimit,
		ExtraRevisionCostCents: ToCents(req.ExtraRevisionCost),
		ShareToken:             NewShareToken(),
		CreatedAt:              now,
	}

	if entitled {
		err = s.repo.Create(ctx, proj)
	} else {
		if err := s.checkQuota(ctx, p.AccountID); err != nil {
			return nil, err
		}
		err = s.repo.CreateWithinQuota(ctx, proj, s.freeLimit)
	}
	if err != nil {
		if errors.Is(err, repository.ErrLimitReached) {
			s.refused(ctx, p.AccountID)
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.activity.Record(ctx, p.AccountID, &proj.ID, activity.TypeProjectCreated,
		fmt.Sprintf("created project %q with %d revisions", proj.Name, proj.RevisionLimit))
	if s.logger != nil {
		s.logger.Info("project created", "account_id", p.AccountID, "project_id", proj.ID, "entitled", entitled)
	}

	return proj, nil
}

// CanCreate reports whether the account may create another project right now,
// without creating one. Used for pre-flight UI state.
func (s *Service) CanCreate(ctx context.Context, p account.Principal) (bool, error) {
	if !p.Authenticated() {
		return false, account.ErrUnauthenticated
	}
	entitled, err := s.isEntitled(ctx, p.AccountID)
	if err != nil {
		return false, err
	}
	if entitled {
		return true, nil
	}
	n, err := s.repo.CountByAccount(ctx, p.AccountID)
	if err != nil {
		return false, fmt.Errorf("counting projects: %w", err)
	}
	return n < s.freeLimit, nil
}

// Get fetches a project owned by the principal.
func (s *Service) Get(ctx context.Context, p account.Principal, id string) (*Project, error) {
	if !p.Authenticated() {
		return nil, account.ErrUnauthenticated
	}
	proj, err := s.repo.Get(ctx, p.AccountID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the principal's project summaries, newest first.
func (s *Service) List(ctx context.Context, p account.Principal) ([]ProjectSummary, error) {
	if !p.Authenticated() {
		return nil, account.ErrUnauthenticated
	}
	summaries, err := s.repo.List(ctx, p.AccountID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for i := range summaries {
		summaries[i].Status = scope.Of(summaries[i].RevisionCount, summaries[i].RevisionLimit)
	}
	return summaries, nil
}

func (s *Service) isEntitled(ctx context.Context, accountID string) (bool, error) {
	n, err := s.entitlements.CountActive(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("counting active entitlements: %w", err)
	}
	return n > 0, nil
}

func (s *Service) checkQuota(ctx context.Context, accountID string) error {
	n, err := s.repo.CountByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("counting projects: %w", err)
	}
	if n >= s.freeLimit {
		s.refused(ctx, accountID)
		return ErrQuotaExceeded
	}
	return nil
}

func (s *Service) refused(ctx context.Context, accountID string) {
	s.activity.Record(ctx, accountID, nil, activity.TypeQuotaExceeded,
		fmt.Sprintf("free plan allows %d project(s)", s.freeLimit))
	if s.logger != nil {
		s.logger.Info("project quota exceeded", "account_id", accountID, "limit", s.freeLimit)
	}
}

// NewShareToken returns an unguessable token for anonymous read-only access.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidShareToken reports whether token has the shape NewShareToken produces.
func ValidShareToken(token string) bool {
	if len(token) != 32 {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}
