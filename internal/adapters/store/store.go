// Package store abstracts the versioned blob store backing raw submissions
// and the aggregate snapshot.
package store

import "context"

// File is the content of one stored blob plus its version tag.
type File struct {
	Content []byte
	SHA     string
}

// Entry is one directory listing item.
type Entry struct {
	Name string
	Path string
	SHA  string
}

// BlobStore provides read/write access to versioned files by path.
type BlobStore interface {
	// Get returns the file at path. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, path string) (File, error)

	// Put creates or updates the file at path and returns the new version
	// tag. When expectedSHA is non-empty the write is conditional on the
	// stored version still matching; a lost update surfaces as ErrConflict.
	Put(ctx context.Context, path string, content []byte, message, expectedSHA string) (string, error)

	// List returns the entries directly under dir. A missing directory is
	// an empty listing, not an error.
	List(ctx context.Context, dir string) ([]Entry, error)
}
