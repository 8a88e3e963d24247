package storage

import "errors"

var (
	// ErrDocumentNotFound is returned when the requested document does
	// not exist in the backend
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidPath is returned when a path escapes the storage root
	ErrInvalidPath = errors.New("invalid storage path")
)
