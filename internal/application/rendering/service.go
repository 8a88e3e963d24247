// Package rendering exposes the application service that turns render
// requests into finished PDF documents.
package rendering

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/render"
	"github.com/facturio/backend/internal/infrastructure/storage"
)

// RenderService handles document rendering operations
type RenderService struct {
	registry    *render.BuilderRegistry
	pdfStorage  storage.PDFStorage
	logoFetcher *cache.LogoFetcher
	logger      *zap.Logger
	tracer      trace.Tracer

	maxPages int
	persist  bool
}

// ServiceOption configures a RenderService
type ServiceOption func(*RenderService)

// WithMaxPages overrides the page-count guard for all renders
func WithMaxPages(n int) ServiceOption {
	return func(s *RenderService) {
		s.maxPages = n
	}
}

// WithPersistence enables storing rendered PDFs in the configured backend
func WithPersistence(enabled bool) ServiceOption {
	return func(s *RenderService) {
		s.persist = enabled
	}
}

// WithLogoFetcher enables fetching business logos referenced by URL
func WithLogoFetcher(f *cache.LogoFetcher) ServiceOption {
	return func(s *RenderService) {
		s.logoFetcher = f
	}
}

// NewRenderService creates a new RenderService
func NewRenderService(
	registry *render.BuilderRegistry,
	pdfStorage storage.PDFStorage,
	logger *zap.Logger,
	opts ...ServiceOption,
) *RenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdfStorage == nil {
		pdfStorage = storage.NopStorage{}
	}
	s := &RenderService{
		registry:   registry,
		pdfStorage: pdfStorage,
		logger:     logger,
		tracer:     otel.Tracer("facturio/rendering"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render validates the request, renders the PDF and optionally persists it.
func (s *RenderService) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	ctx, span := s.tracer.Start(ctx, "RenderService.Render",
		trace.WithAttributes(
			attribute.String("document.type", req.Type),
			attribute.String("document.number", req.Number),
		))
	defer span.End()

	payload, err := req.toPayload()
	if err != nil {
		return nil, err
	}

	buildOpts := render.BuildOptions{MaxPages: s.maxPages}
	if s.logoFetcher != nil && payload.Business.LogoURL != "" {
		logo, err := s.logoFetcher.Fetch(ctx, payload.Business.LogoURL)
		if err != nil {
			// A broken logo never blocks the document; render without it.
			s.logger.Warn("logo fetch failed, rendering without logo",
				zap.String("url", payload.Business.LogoURL),
				zap.Error(err))
		} else {
			buildOpts.Logo = logo
		}
	}

	result, err := s.registry.Build(payload, buildOpts)
	if err != nil {
		s.logger.Error("document render failed",
			zap.String("documentId", payload.DocumentID),
			zap.String("type", payload.Type.String()),
			zap.Error(err))
		return nil, err
	}

	out := &RenderResult{
		DocumentID: payload.DocumentID,
		Type:       payload.Type.String(),
		Filename:   documentFilename(payload.Type, payload.Number),
		PageCount:  result.PageCount,
		SizeBytes:  int64(len(result.PDF)),
		PDF:        result.PDF,
	}

	if s.persist {
		key, err := uuid.Parse(payload.DocumentID)
		if err != nil {
			key = uuid.New()
		}
		stored, err := s.pdfStorage.Store(ctx, &storage.StoreRequest{
			Key:     key,
			PDFData: result.PDF,
		})
		if err != nil {
			s.logger.Error("failed to persist rendered pdf",
				zap.String("documentId", payload.DocumentID),
				zap.Error(err))
			return nil, err
		}
		out.StoragePath = stored.Path
		out.URL = stored.URL
	}

	s.logger.Info("document rendered",
		zap.String("documentId", out.DocumentID),
		zap.String("type", out.Type),
		zap.Int("pages", out.PageCount),
		zap.Int64("sizeBytes", out.SizeBytes))

	span.SetAttributes(attribute.Int("document.pages", out.PageCount))
	return out, nil
}

// GetDocument streams a previously persisted PDF by its storage path.
func (s *RenderService) GetDocument(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.pdfStorage.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// DocumentTypes returns the renderable document types.
func (s *RenderService) DocumentTypes() DocumentTypesResponse {
	types := s.registry.RegisteredTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	// Registry iteration order is random; keep the response stable.
	sort.Strings(names)
	return DocumentTypesResponse{Types: names}
}

// documentFilename builds the download filename, e.g. "facture-2026-0042.pdf"
func documentFilename(docType document.DocType, number string) string {
	prefix := "document"
	switch docType {
	case document.DocTypeQuote:
		prefix = "devis"
	case document.DocTypeInvoice:
		prefix = "facture"
	}

	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, number)
	safe = strings.Trim(safe, "-")
	if safe == "" {
		return prefix + ".pdf"
	}
	return prefix + "-" + safe + ".pdf"
}
