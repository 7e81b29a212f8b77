package repositories

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned when a uniquely-keyed document was
	// created concurrently by another writer. Callers re-read instead of
	// overwriting.
	ErrAlreadyExists = errors.New("document already exists")
)
