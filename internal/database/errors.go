package database

import "errors"

var (
	// ErrStoreUnavailable means storage could not be reached after retries.
	ErrStoreUnavailable = errors.New("message store unavailable")
	// ErrInvalidQuery means the caller supplied an empty or invalid filter.
	ErrInvalidQuery = errors.New("invalid message query")
	// ErrInvalidMessage means a message could not be appended as given.
	ErrInvalidMessage = errors.New("invalid message")
)
