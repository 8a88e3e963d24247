package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileSystemStorage {
	t.Helper()
	s, err := NewFileSystemStorage(t.TempDir(), "http://localhost:8080/api/v1/documents")
	require.NoError(t, err)
	return s
}

func TestFileSystemStorage_StoreAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	key := uuid.New()

	result, err := s.Store(ctx, &StoreRequest{Key: key, PDFData: []byte("%PDF-test")})
	require.NoError(t, err)

	assert.Equal(t, int64(9), result.Size)
	assert.Contains(t, result.Path, key.String()+".pdf")
	assert.Equal(t, "http://localhost:8080/api/v1/documents/"+result.Path, result.URL)

	rc, err := s.Get(ctx, result.Path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-test"), data)
}

func TestFileSystemStorage_StoreValidation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, nil)
	assert.Error(t, err)

	_, err = s.Store(ctx, &StoreRequest{Key: uuid.Nil, PDFData: []byte("x")})
	assert.Error(t, err)

	_, err = s.Store(ctx, &StoreRequest{Key: uuid.New()})
	assert.Error(t, err)
}

func TestFileSystemStorage_GetRejectsTraversal(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, path := range []string{"", "../etc/passwd", "2026/../../secret.pdf", "..\\secret.pdf"} {
		_, err := s.Get(ctx, path)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", path)
	}
}

func TestFileSystemStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get(context.Background(), "2026/01/"+uuid.New().String()+".pdf")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFileSystemStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	result, err := s.Store(ctx, &StoreRequest{Key: uuid.New(), PDFData: []byte("%PDF-test")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, result.Path))
	assert.ErrorIs(t, s.Delete(ctx, result.Path), ErrDocumentNotFound)
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	oldDoc, err := s.Store(ctx, &StoreRequest{Key: uuid.New(), PDFData: []byte("%PDF-old")})
	require.NoError(t, err)
	fresh, err := s.Store(ctx, &StoreRequest{Key: uuid.New(), PDFData: []byte("%PDF-new")})
	require.NoError(t, err)

	// age the first file two days
	oldPath := filepath.Join(s.basePath, filepath.FromSlash(oldDoc.Path))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := s.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, oldDoc.Path)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	rc, err := s.Get(ctx, fresh.Path)
	require.NoError(t, err)
	rc.Close()
}

func TestNopStorage(t *testing.T) {
	var s PDFStorage = NopStorage{}
	ctx := context.Background()

	result, err := s.Store(ctx, &StoreRequest{Key: uuid.New(), PDFData: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Size)
	assert.Empty(t, result.Path)

	_, err = s.Get(ctx, "anything")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, s.Delete(ctx, "anything"))
}
