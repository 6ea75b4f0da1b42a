package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/repository"
)

// RevisionRepository implements revision.Repository for SQLite
type RevisionRepository struct {
	db *DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

// Count returns how many revisions a project has.
func (r *RevisionRepository) Count(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revisions WHERE project_id = ?`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, storeErr("count revisions", err)
	}
	return n, nil
}

// CreateWithinLimit inserts rev only while the project's revision count is below
// its revision_limit. The check and the insert are one statement.
func (r *RevisionRepository) CreateWithinLimit(ctx context.Context, rev *revision.Revision) error {
	query := `
		INSERT INTO revisions (id, project_id, note, created_at)
		SELECT ?, p.id, ?, ?
		FROM projects p
		WHERE p.id = ?
		  AND (SELECT COUNT(*) FROM revisions WHERE project_id = p.id) < p.revision_limit
	`

	result, err := r.db.ExecContext(ctx, query,
		rev.ID,
		rev.Note,
		rev.CreatedAt,
		rev.ProjectID,
	)
	if err != nil {
		return storeErr("create revision", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("get rows affected", err)
	}
	if rowsAffected == 0 {
		return repository.ErrLimitReached
	}
	return nil
}

// List returns a project's revisions oldest first.
func (r *RevisionRepository) List(ctx context.Context, projectID string) ([]revision.Revision, error) {
	return listRevisions(ctx, r.db, projectID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listRevisions(ctx context.Context, q querier, projectID string) ([]revision.Revision, error) {
	query := `
		SELECT id, project_id, note, created_at
		FROM revisions
		WHERE project_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, storeErr("list revisions", err)
	}
	defer rows.Close()

	revs := []revision.Revision{}
	for rows.Next() {
		var rev revision.Revision
		if err := rows.Scan(&rev.ID, &rev.ProjectID, &rev.Note, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate revision rows", err)
	}
	return revs, nil
}
