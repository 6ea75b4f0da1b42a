package revision

import (
	"context"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/project"
)

// Repository provides persistence for revisions.
type Repository interface {
	Count(ctx context.Context, projectID string) (int, error)
	// CreateWithinLimit inserts rev only while the project has fewer revisions than
	// its revision_limit, as a single conditional write. It returns
	// repository.ErrLimitReached when the condition fails.
	CreateWithinLimit(ctx context.Context, rev *Revision) error
	List(ctx context.Context, projectID string) ([]Revision, error)
}

// ProjectLoader loads the principal's project and its limit. Implemented by
// project.Service, which reports project.ErrProjectNotFound for foreign or
// missing ids.
type ProjectLoader interface {
	Get(ctx context.Context, p account.Principal, id string) (*project.Project, error)
}
