package share

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/repository"
)

// Resolver answers share-token lookups. It has no write operations.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a resolver over a read-only store.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the public view for token. Every failure, including a store
// outage, is reported as ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, token string) (*View, error) {
	token = strings.TrimSpace(token)
	if !project.ValidShareToken(token) {
		return nil, ErrNotFound
	}

	snap, err := r.store.SnapshotByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && r.logger != nil {
			r.logger.Warn("share lookup failed", "error", err)
		}
		return nil, ErrNotFound
	}
	if snap == nil {
		return nil, ErrNotFound
	}

	p := snap.Project
	view := &View{
		Project: SharedProject{
			Name:              p.Name,
			ClientName:        p.ClientName,
			Scope:             p.Scope,
			RevisionLimit:     p.RevisionLimit,
			ExtraRevisionCost: p.ExtraRevisionCost(),
			CreatedAt:         p.CreatedAt,
		},
		Revisions: make([]SharedRevision, 0, len(snap.Revisions)),
		Scope:     scope.Summarize(len(snap.Revisions), p.RevisionLimit),
	}
	for _, rev := range snap.Revisions {
		view.Revisions = append(view.Revisions, SharedRevision{Note: rev.Note, CreatedAt: rev.CreatedAt})
	}
	return view, nil
}
