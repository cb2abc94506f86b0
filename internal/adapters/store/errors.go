package store

import "errors"

// Sentinel kinds for blob store errors.
var (
	ErrNotFound      = errors.New("file not found")
	ErrConflict      = errors.New("version conflict")
	ErrNotConfigured = errors.New("store credentials not configured")
)
