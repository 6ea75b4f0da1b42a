package share

import "errors"

// ErrNotFound covers unknown and malformed tokens as well as failed lookups.
var ErrNotFound = errors.New("shared project not found")
