package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileSystemStorage stores PDFs on the local file system, partitioned by
// year and month of creation.
type FileSystemStorage struct {
	basePath string
	baseURL  string
}

// NewFileSystemStorage creates a new file system storage rooted at basePath.
// baseURL is prepended to relative paths when building download URLs.
func NewFileSystemStorage(basePath, baseURL string) (*FileSystemStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path is required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileSystemStorage{
		basePath: abs,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Store writes the PDF to {base}/{year}/{month}/{key}.pdf
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if req == nil {
		return nil, fmt.Errorf("store request is required")
	}
	if req.Key == uuid.Nil {
		return nil, fmt.Errorf("storage key is required")
	}
	if len(req.PDFData) == 0 {
		return nil, fmt.Errorf("pdf data is empty")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	relPath := filepath.Join(
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.Key.String()+".pdf",
	)
	fullPath := filepath.Join(s.basePath, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, req.PDFData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return &StoreResult{
		Path: filepath.ToSlash(relPath),
		URL:  s.GetURL(relPath),
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get opens a stored PDF by its relative path.
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return f, nil
}

// Delete removes a stored PDF by its relative path.
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete pdf: %w", err)
	}
	return nil
}

// CleanupOlderThan removes PDFs whose modification time is older
// than the given age.
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup failed: %w", err)
	}
	return removed, nil
}

// GetURL builds the download URL for a stored document.
func (s *FileSystemStorage) GetURL(path string) string {
	if s.baseURL == "" {
		return filepath.ToSlash(path)
	}
	return s.baseURL + "/" + filepath.ToSlash(path)
}

// resolve validates a relative path and maps it under the base directory.
func (s *FileSystemStorage) resolve(path string) (string, error) {
	if path == "" || containsDotDot(path) {
		return "", ErrInvalidPath
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(path))
	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(abs, s.basePath+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return abs, nil
}

func containsDotDot(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if part == ".." {
			return true
		}
	}
	return false
}

var _ PDFStorage = (*FileSystemStorage)(nil)
