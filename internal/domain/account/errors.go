package account

import "errors"

// ErrUnauthenticated indicates the caller has no valid identity.
var ErrUnauthenticated = errors.New("unauthenticated")
