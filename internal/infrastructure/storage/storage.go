// Package storage persists generated PDF documents under opaque keys.
// Implementations cover the local file system and S3-compatible object
// stores; callers that only stream bytes back to the client use NopStorage.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// StoreRequest contains the parameters for storing a generated PDF
type StoreRequest struct {
	// Key is the opaque storage key for the document
	Key uuid.UUID
	// PDFData is the raw PDF content
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Path is the storage path (relative to the backend root)
	Path string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// PDFStorage defines the interface for storing and retrieving generated
// PDF documents
type PDFStorage interface {
	// Store saves a PDF and returns its path and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a PDF by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a PDF
	Delete(ctx context.Context, path string) error
	// CleanupOlderThan removes documents older than the given age and
	// returns how many were removed
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the accessible URL for a stored PDF
	GetURL(path string) string
}

// NopStorage discards nothing and stores nothing; it serves deployments
// where generated documents are only streamed to the caller.
type NopStorage struct{}

// Store reports the would-be size without persisting anything.
func (NopStorage) Store(_ context.Context, req *StoreRequest) (*StoreResult, error) {
	return &StoreResult{Size: int64(len(req.PDFData))}, nil
}

// Get always reports not found.
func (NopStorage) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrDocumentNotFound
}

// Delete is a no-op.
func (NopStorage) Delete(context.Context, string) error { return nil }

// CleanupOlderThan is a no-op.
func (NopStorage) CleanupOlderThan(context.Context, time.Duration) (int, error) { return 0, nil }

// GetURL returns an empty URL.
func (NopStorage) GetURL(string) string { return "" }

var _ PDFStorage = NopStorage{}
