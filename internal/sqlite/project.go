package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, account_id, name, client_name, scope, revision_limit,
	extra_revision_cost_cents, share_token, created_at`

// Create inserts a project without a quota condition.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, projectArgs(proj)...)
	return storeErr("create project", err)
}

// CreateWithinQuota inserts proj in one statement guarded by the owner's current
// project count. Zero affected rows means the quota was already reached.
func (r *ProjectRepository) CreateWithinQuota(ctx context.Context, proj *project.Project, quota int) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM projects WHERE account_id = ?) < ?
	`

	args := append(projectArgs(proj), proj.AccountID, quota)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeErr("create project", err)
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

func projectArgs(proj *project.Project) []any {
	return []any{
		proj.ID,
		proj.AccountID,
		proj.Name,
		proj.ClientName,
		proj.Scope,
		proj.RevisionLimit,
		proj.ExtraRevisionCostCents,
		proj.ShareToken,
		proj.CreatedAt,
	}
}

// CountByAccount returns how many projects an account owns.
func (r *ProjectRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE account_id = ?`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, storeErr("count projects", err)
	}
	return n, nil
}

// Get retrieves a project by ID, scoped to its owner.
func (r *ProjectRepository) Get(ctx context.Context, accountID, id string) (*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = ? AND account_id = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, accountID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get project", err)
	}
	return proj, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	err := row.Scan(
		&proj.ID,
		&proj.AccountID,
		&proj.Name,
		&proj.ClientName,
		&proj.Scope,
		&proj.RevisionLimit,
		&proj.ExtraRevisionCostCents,
		&proj.ShareToken,
		&proj.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// List returns all projects for an account with their revision counts, newest first.
func (r *ProjectRepository) List(ctx context.Context, accountID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.client_name,
			p.revision_limit,
			p.share_token,
			p.created_at,
			COUNT(rv.id) as revision_count
		FROM projects p
		LEFT JOIN revisions rv ON rv.project_id = p.id
		WHERE p.account_id = ?
		GROUP BY p.id, p.name, p.client_name, p.revision_limit, p.share_token, p.created_at
		ORDER BY p.created_at DESC, p.rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	for rows.Next() {
		var summary project.ProjectSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.ClientName,
			&summary.RevisionLimit,
			&summary.ShareToken,
			&summary.CreatedAt,
			&summary.RevisionCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, storeErr("iterate project rows", err)
	}

	return summaries, nil
}
