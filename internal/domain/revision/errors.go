package revision

import "errors"

var (
	// ErrInvalidInput indicates an empty or missing revision note.
	ErrInvalidInput = errors.New("invalid revision input")
	// ErrScopeExceeded indicates the project's revision limit has been reached.
	ErrScopeExceeded = errors.New("revision limit reached")
)
