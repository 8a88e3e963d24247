package render

// Font palette for generated documents. The built-in Helvetica core font
// covers the sanitized CP1252 repertoire without embedding font files.
var (
	fontTitle    = FontSpec{Family: "Helvetica", Style: "B", Size: 15}
	fontHeading  = FontSpec{Family: "Helvetica", Style: "B", Size: 10.5}
	fontBody     = FontSpec{Family: "Helvetica", Style: "", Size: 9}
	fontBodyBold = FontSpec{Family: "Helvetica", Style: "B", Size: 9}
	fontSmall    = FontSpec{Family: "Helvetica", Style: "", Size: 7.5}
)

// Line heights in millimeters per font role.
const (
	lineHeightTitle   = 7.0
	lineHeightHeading = 5.4
	lineHeightBody    = 4.3
	lineHeightSmall   = 3.6
)

// Row is one renderable line or record inside a section. Height must be
// stable for a given paginator so the atomicity decision in PlaceBlock
// matches what Draw produces.
type Row interface {
	Height(p *Paginator) float64
	Draw(p *Paginator) error
}

// Section is a named, ordered content block. A section never spans zero
// pages; it may span several. Header, when set, marks the section as a
// table: the header row is redrawn after every page break inside the
// section.
type Section struct {
	Name              string
	StartsOnFreshPage bool
	Header            Row
	Rows              []Row
}

// TextRow draws wrapped text as one atomic block: either all its lines fit
// on the current page or the whole row moves to the next one. Use FlowText
// for blocks allowed to continue across pages.
type TextRow struct {
	Text       string
	Font       FontSpec
	LineHeight float64
	Indent     float64 // offset from the left margin
	Width      float64 // wrap width; 0 means the remaining printable width

	lines []string
}

func (r *TextRow) wrap(p *Paginator) []string {
	if r.lines == nil {
		width := r.Width
		if width <= 0 {
			width = p.Geometry().PrintableWidth() - r.Indent
		}
		r.lines = p.WrapText(r.Text, width, r.Font)
	}
	return r.lines
}

func (r *TextRow) Height(p *Paginator) float64 {
	return float64(len(r.wrap(p))) * r.LineHeight
}

func (r *TextRow) Draw(p *Paginator) error {
	for _, line := range r.wrap(p) {
		p.DrawTextAt(r.Indent, r.LineHeight*0.8, r.Font, line)
		p.Advance(r.LineHeight)
	}
	return nil
}

// FlowText draws wrapped text that may continue across page boundaries.
// Its height is a single line, so PlaceBlock only guarantees room for the
// first line; PlaceLines breaks pages for the rest.
type FlowText struct {
	Text       string
	Font       FontSpec
	LineHeight float64
	Indent     float64
}

func (r *FlowText) Height(p *Paginator) float64 {
	return r.LineHeight
}

func (r *FlowText) Draw(p *Paginator) error {
	width := p.Geometry().PrintableWidth() - r.Indent
	lines := p.WrapText(r.Text, width, r.Font)
	return p.PlaceLines(r.Indent, lines, r.Font, r.LineHeight)
}

// Spacer advances the cursor by a fixed amount.
type Spacer struct {
	H float64
}

func (r *Spacer) Height(p *Paginator) float64 { return r.H }

func (r *Spacer) Draw(p *Paginator) error {
	p.Advance(r.H)
	return nil
}

// Rule draws a horizontal rule across the printable width.
type Rule struct{}

func (r *Rule) Height(p *Paginator) float64 { return 1.6 }

func (r *Rule) Draw(p *Paginator) error {
	p.Advance(0.8)
	p.DrawRule()
	p.Advance(0.8)
	return nil
}

// KeyValueRow draws a label and a value on one line.
type KeyValueRow struct {
	Key   string
	Value string
}

func (r *KeyValueRow) Height(p *Paginator) float64 { return lineHeightBody }

func (r *KeyValueRow) Draw(p *Paginator) error {
	p.DrawTextAt(0, lineHeightBody*0.8, fontBodyBold, r.Key)
	keyWidth := p.TextWidth(r.Key+" ", fontBodyBold)
	p.DrawTextAt(keyWidth, lineHeightBody*0.8, fontBody, r.Value)
	p.Advance(lineHeightBody)
	return nil
}

// AmountRow draws a right-aligned label/amount pair, used by the totals
// block. Emphasized rows use the bold face for both cells.
type AmountRow struct {
	Label    string
	Amount   string
	Emphasis bool
}

func (r *AmountRow) Height(p *Paginator) float64 { return lineHeightBody + 0.8 }

func (r *AmountRow) Draw(p *Paginator) error {
	font := fontBody
	if r.Emphasis {
		font = fontBodyBold
	}
	width := p.Geometry().PrintableWidth()
	labelX := width - totalsBlockWidth
	amountX := width - p.TextWidth(r.Amount, font)
	p.DrawTextAt(labelX, lineHeightBody*0.8, font, r.Label)
	p.DrawTextAt(amountX, lineHeightBody*0.8, font, r.Amount)
	p.Advance(lineHeightBody + 0.8)
	return nil
}

// totalsBlockWidth is the width reserved for the totals block on the right
// edge of the page.
const totalsBlockWidth = 72.0

// ImageRow places a registered image at the left margin.
type ImageRow struct {
	Name string
	Data []byte
	W    float64
	H    float64
}

func (r *ImageRow) Height(p *Paginator) float64 { return r.H }

func (r *ImageRow) Draw(p *Paginator) error {
	return p.PlaceImage(r.Name, r.Data, 0, r.W, r.H)
}
