// Package render turns a validated document payload into a paginated PDF.
//
// This package contains:
// - Canvas, the page-canvas primitive (new page, draw text, draw line,
//   serialize to bytes), implemented over gofpdf
// - Paginator, the layout engine owning the page cursor, word wrapping and
//   page-break decisions
// - Section and Row types for ordered content blocks
// - Builders assembling the fixed section order for each document type
// - Sanitize, the free-text normalizer run on every string before layout
//
// Rendering is synchronous and single-threaded per invocation: one Build
// call owns one Canvas and one Paginator end to end, and either returns the
// full byte buffer or fails atomically.
package render
