package render

// FontSpec selects a font face for drawing and measuring text.
type FontSpec struct {
	Family string  // e.g. "Helvetica"
	Style  string  // "", "B", "I" or "BI"
	Size   float64 // point size
}

// Canvas is the page-canvas primitive the layout engine draws on. All
// coordinates are millimeters from the top-left corner of the page. Font
// resources are embedded when the canvas is created; after that, drawing is
// ordinary sequential computation.
//
// A Canvas is owned by exactly one Paginator for the duration of a build and
// must not be shared across concurrent builds.
type Canvas interface {
	// AddPage appends a new blank page and makes it the drawing target.
	// Pages already drawn are never mutated afterwards.
	AddPage()
	// DrawText draws a single line of text with its baseline at y.
	DrawText(x, y float64, font FontSpec, text string)
	// DrawLine draws a straight line between two points.
	DrawLine(x1, y1, x2, y2 float64)
	// DrawImage places a previously registered image. Registering the same
	// name twice reuses the first registration.
	DrawImage(name string, data []byte, x, y, w float64) error
	// StringWidth measures the rendered width of text in millimeters.
	StringWidth(text string, font FontSpec) float64
	// Output serializes the complete document into a standalone byte buffer.
	Output() ([]byte, error)
}

// PageGeometry describes the printable area of a page in millimeters.
type PageGeometry struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// A4Portrait returns the default geometry for generated documents.
func A4Portrait() PageGeometry {
	return PageGeometry{
		Width:        210,
		Height:       297,
		MarginTop:    16,
		MarginBottom: 18,
		MarginLeft:   15,
		MarginRight:  15,
	}
}

// PrintableWidth returns the horizontal space available for content.
func (g PageGeometry) PrintableWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// PrintableHeight returns the vertical space available for content.
func (g PageGeometry) PrintableHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}
