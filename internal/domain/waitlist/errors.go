package waitlist

import "errors"

// ErrInvalidInput indicates a malformed email address.
var ErrInvalidInput = errors.New("invalid email address")
