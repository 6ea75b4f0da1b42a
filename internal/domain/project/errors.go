package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist or belongs to another account.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrQuotaExceeded indicates the free-tier project cap has been reached.
	ErrQuotaExceeded = errors.New("project quota exceeded")
)
