package render

import (
	"sync"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/shared"
)

// BuilderRegistry manages Builder implementations for different document
// types. It provides a centralized way to look up builders by type.
type BuilderRegistry struct {
	mu       sync.RWMutex
	builders map[document.DocType]Builder
}

// NewBuilderRegistry creates a new empty BuilderRegistry.
func NewBuilderRegistry() *BuilderRegistry {
	return &BuilderRegistry{
		builders: make(map[document.DocType]Builder),
	}
}

// DefaultRegistry returns a registry with the quote and invoice builders
// wired to the gofpdf canvas.
func DefaultRegistry() *BuilderRegistry {
	r := NewBuilderRegistry()
	r.Register(NewQuoteBuilder(nil))
	r.Register(NewInvoiceBuilder(nil))
	return r
}

// Register adds a Builder to the registry. A builder for the same DocType
// replaces the previous one.
func (r *BuilderRegistry) Register(builder Builder) {
	if builder == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[builder.DocType()] = builder
}

// GetBuilder returns the Builder for the given DocType.
func (r *BuilderRegistry) GetBuilder(docType document.DocType) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[docType]
	return builder, ok
}

// Build renders a payload with the builder registered for its type.
func (r *BuilderRegistry) Build(payload document.Payload, opts BuildOptions) (*BuildResult, error) {
	builder, ok := r.GetBuilder(payload.Type)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "no builder registered for document type: "+payload.Type.String())
	}
	return builder.Build(payload, opts)
}

// RegisteredTypes returns all document types that have registered builders.
func (r *BuilderRegistry) RegisteredTypes() []document.DocType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]document.DocType, 0, len(r.builders))
	for docType := range r.builders {
		types = append(types, docType)
	}
	return types
}
