package sqlite

import (
	"context"
	"database/sql"

	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/repository"
)

// ShareStore implements share.Store. It only reads, inside a transaction that is
// always rolled back.
type ShareStore struct {
	db *DB
}

// NewShareStore creates a new ShareStore
func NewShareStore(db *DB) *ShareStore {
	return &ShareStore{db: db}
}

// SnapshotByToken loads the project holding token and its revisions from one
// consistent snapshot.
func (s *ShareStore) SnapshotByToken(ctx context.Context, token string) (*share.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE share_token = ?
	`
	proj, err := scanProject(tx.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("resolve share token", err)
	}

	revs, err := listRevisions(ctx, tx, proj.ID)
	if err != nil {
		return nil, err
	}

	return &share.Snapshot{Project: *proj, Revisions: revs}, nil
}
