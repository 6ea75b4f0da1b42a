package share

import "context"

// Store is the read-only lookup the resolver depends on.
type Store interface {
	SnapshotByToken(ctx context.Context, token string) (*Snapshot, error)
}
