package revision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/repository"
)

// Service implements the revision-recording gate.
type Service struct {
	revisions Repository
	projects  ProjectLoader
	activity  *activity.Recorder
	logger    *slog.Logger
}

// NewService creates a new revision service.
func NewService(revisions Repository, projects ProjectLoader, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		revisions: revisions,
		projects:  projects,
		activity:  recorder,
		logger:    logger,
	}
}

// RecordRequest describes a revision to append.
type RecordRequest struct {
	ProjectID string
	Note      string
}

// Record appends a revision unless the project's limit has been reached. The
// pre-check refuses early; the conditional insert is what guarantees the limit.
func (s *Service) Record(ctx context.Context, p account.Principal, req RecordRequest) (*RecordResult, error) {
	if !p.Authenticated() {
		return nil, account.ErrUnauthenticated
	}
	note := strings.TrimSpace(req.Note)
	if strings.TrimSpace(req.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrInvalidInput)
	}

	proj, err := s.projects.Get(ctx, p, req.ProjectID)
	if err != nil {
		return nil, err
	}

	count, err := s.revisions.Count(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("counting revisions: %w", err)
	}
	if count >= proj.RevisionLimit {
		s.refused(ctx, p.AccountID, proj)
		return nil, ErrScopeExceeded
	}

	rev := &Revision{
		ID:        ulid.Make().String(),
		ProjectID: proj.ID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.revisions.CreateWithinLimit(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrLimitReached) {
			s.refused(ctx, p.AccountID, proj)
			return nil, ErrScopeExceeded
		}
		return nil, fmt.Errorf("creating revision: %w", err)
	}

	count, err = s.revisions.Count(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("counting revisions: %w", err)
	}

	s.activity.Record(ctx, p.AccountID, &proj.ID, activity.TypeRevisionRecorded,
		fmt.Sprintf("revision %d of %d recorded", count, proj.RevisionLimit))
	if s.logger != nil {
		s.logger.Info("revision recorded", "project_id", proj.ID, "count", count, "limit", proj.RevisionLimit)
	}

	return &RecordResult{
		Revision: *rev,
		Scope:    scope.Summarize(count, proj.RevisionLimit),
	}, nil
}

// Timeline returns the principal's project with its revisions oldest first.
func (s *Service) Timeline(ctx context.Context, p account.Principal, projectID string) (*Timeline, error) {
	if !p.Authenticated() {
		return nil, account.ErrUnauthenticated
	}
	proj, err := s.projects.Get(ctx, p, projectID)
	if err != nil {
		return nil, err
	}
	revs, err := s.revisions.List(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	if revs == nil {
		revs = []Revision{}
	}
	return &Timeline{
		Project:   *proj,
		Revisions: revs,
		Scope:     scope.Summarize(len(revs), proj.RevisionLimit),
	}, nil
}

func (s *Service) refused(ctx context.Context, accountID string, proj *project.Project) {
	s.activity.Record(ctx, accountID, &proj.ID, activity.TypeScopeExceeded,
		fmt.Sprintf("revision refused: limit of %d reached", proj.RevisionLimit))
	if s.logger != nil {
		s.logger.Info("revision scope exceeded", "project_id", proj.ID, "limit", proj.RevisionLimit)
	}
}
