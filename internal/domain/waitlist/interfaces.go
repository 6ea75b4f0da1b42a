package waitlist

import "context"

// Repository provides persistence for waitlist entries.
type Repository interface {
	// Add stores entry and reports whether it was new.
	Add(ctx context.Context, entry *Entry) (bool, error)
}
