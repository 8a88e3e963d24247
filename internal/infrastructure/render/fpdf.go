package render

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// fpdfCanvas implements Canvas over gofpdf. It uses the built-in core fonts
// (CP1252 glyph set) so no font files are embedded; text must already be
// sanitized down to that character repertoire.
type fpdfCanvas struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
	font      FontSpec
}

// NewFpdfCanvas creates an A4 portrait PDF canvas with no pages yet. The
// paginator adds the first page when layout starts.
func NewFpdfCanvas(title string) Canvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	// A fixed creation date keeps identical payloads byte-identical.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	// The paginator owns all page-break decisions.
	pdf.SetAutoPageBreak(false, 0)
	return &fpdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *fpdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *fpdfCanvas) setFont(font FontSpec) {
	if font != c.font {
		c.pdf.SetFont(font.Family, font.Style, font.Size)
		c.font = font
	}
}

func (c *fpdfCanvas) DrawText(x, y float64, font FontSpec, text string) {
	c.setFont(font)
	c.pdf.Text(x, y, c.translate(text))
}

func (c *fpdfCanvas) DrawLine(x1, y1, x2, y2 float64) {
	c.pdf.SetDrawColor(120, 120, 120)
	c.pdf.SetLineWidth(0.2)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *fpdfCanvas) DrawImage(name string, data []byte, x, y, w float64) error {
	imageType := detectImageType(data)
	if imageType == "" {
		return NewRenderError(ErrCodeCanvasFailed, "unsupported image format", nil)
	}
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	if c.pdf.GetImageInfo(name) == nil {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	}
	c.pdf.ImageOptions(name, x, y, w, 0, false, opts, 0, "")
	if c.pdf.Err() {
		return NewRenderError(ErrCodeCanvasFailed, "image placement failed", c.pdf.Error())
	}
	return nil
}

func (c *fpdfCanvas) StringWidth(text string, font FontSpec) float64 {
	c.setFont(font)
	return c.pdf.GetStringWidth(c.translate(text))
}

func (c *fpdfCanvas) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeCanvasFailed, "PDF serialization failed", err)
	}
	return buf.Bytes(), nil
}

// detectImageType sniffs the image format from its magic bytes.
func detectImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case len(data) > 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "GIF"
	}
	return ""
}
