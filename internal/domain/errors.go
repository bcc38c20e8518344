package domain

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrNoSeats   = errors.New("no seats remaining")

	// ErrStoreUnavailable marks store failures a caller may retry:
	// timeouts and exhausted serialization retries.
	ErrStoreUnavailable = errors.New("store unavailable")
)
