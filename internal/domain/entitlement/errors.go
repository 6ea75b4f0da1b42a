package entitlement

import "errors"

// ErrInvalidInput indicates an incomplete grant request.
var ErrInvalidInput = errors.New("invalid entitlement input")
