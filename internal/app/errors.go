package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	// ErrMalformedInput means the upload is not a CSV with a header and at
	// least one data row.
	ErrMalformedInput = errors.New("malformed submission")

	// ErrStoreWrite means the raw submission could not be stored durably.
	ErrStoreWrite = errors.New("store write failed")

	// ErrSnapshotConflict means the snapshot publish kept losing the
	// conditional write even after retrying with a fresh recompute.
	ErrSnapshotConflict = errors.New("snapshot publish conflict")

	// ErrNoStore means the service was started without a blob store.
	ErrNoStore = errors.New("no blob store configured")
)
