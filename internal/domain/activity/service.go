package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, accountID string, entry *ActivityEntry) error {
	if entry == nil || accountID == "" || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, accountID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, accountID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, accountID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// Recorder logs gate outcomes without ever failing the caller.
type Recorder struct {
	svc    *Service
	logger *slog.Logger
}

// NewRecorder wraps repo for fire-and-forget audit logging. A nil repo records nothing.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	if repo == nil {
		return &Recorder{logger: logger}
	}
	return &Recorder{svc: NewService(repo, logger), logger: logger}
}

// Record appends an entry; failures are logged at warn and swallowed.
func (r *Recorder) Record(ctx context.Context, accountID string, projectID *string, typ ActivityType, summary string) {
	if r == nil || r.svc == nil {
		return
	}
	entry := &ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
	}
	if err := r.svc.LogActivity(ctx, accountID, entry); err != nil && r.logger != nil {
		r.logger.Warn("activity log failed", "type", typ, "account_id", accountID, "error", err)
	}
}
