package render

import "strings"

// DefaultMaxPages bounds how many pages a single document may span. The
// guard turns pathological input (a single unbreakable word, hundreds of
// legal clauses) into a LayoutOverflowError instead of an unbounded loop.
const DefaultMaxPages = 50

// Paginator owns the cursor over the printable area of a document: the
// current page index, the vertical offset from the page top and hence the
// remaining height. It performs word wrapping and all page-break decisions.
// The cursor is created at build start, advances monotonically and is
// discarded when the document closes; it is never shared between builds.
type Paginator struct {
	canvas    Canvas
	geom      PageGeometry
	maxPages  int
	pageIndex int
	cursorY   float64
	started   bool
}

// NewPaginator creates a paginator over canvas. maxPages <= 0 selects
// DefaultMaxPages. No page exists until the first drawing operation.
func NewPaginator(canvas Canvas, geom PageGeometry, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Paginator{
		canvas:   canvas,
		geom:     geom,
		maxPages: maxPages,
		cursorY:  geom.MarginTop,
	}
}

// Geometry returns the page geometry the paginator lays out against.
func (p *Paginator) Geometry() PageGeometry {
	return p.geom
}

// PageIndex returns the 0-based index of the current page.
func (p *Paginator) PageIndex() int {
	return p.pageIndex
}

// PageCount returns the number of pages opened so far.
func (p *Paginator) PageCount() int {
	if !p.started {
		return 0
	}
	return p.pageIndex + 1
}

// CursorY returns the vertical offset from the page top.
func (p *Paginator) CursorY() float64 {
	return p.cursorY
}

// RemainingHeight returns the vertical space left on the current page.
func (p *Paginator) RemainingHeight() float64 {
	return p.geom.Height - p.geom.MarginBottom - p.cursorY
}

// AtPageTop reports whether nothing has been placed on the current page.
func (p *Paginator) AtPageTop() bool {
	return !p.started || p.cursorY <= p.geom.MarginTop
}

// start opens the first page lazily so that validation failures never
// produce a partially built canvas.
func (p *Paginator) start() {
	if !p.started {
		p.canvas.AddPage()
		p.started = true
	}
}

// BreakPage requests a new page from the canvas, resets the cursor to the
// page-top margin and increments the page index. It fails with
// *LayoutOverflowError once the maximum page count would be exceeded.
func (p *Paginator) BreakPage() error {
	p.start()
	if p.pageIndex+1 >= p.maxPages {
		return &LayoutOverflowError{Pages: p.pageIndex + 1, MaxPages: p.maxPages}
	}
	p.canvas.AddPage()
	p.pageIndex++
	p.cursorY = p.geom.MarginTop
	return nil
}

// EnsureRoom breaks the page when less than height remains. A block taller
// than a whole page is allowed to start at a page top (it will overflow the
// sheet rather than loop forever; the page-count guard bounds the damage).
func (p *Paginator) EnsureRoom(height float64) error {
	p.start()
	if p.RemainingHeight() < height && !p.AtPageTop() {
		return p.BreakPage()
	}
	return nil
}

// Advance moves the cursor down without drawing.
func (p *Paginator) Advance(height float64) {
	p.start()
	p.cursorY += height
}

// WrapText greedily wraps text into lines no wider than maxWidth, measured
// with the canvas font metrics. Wrapping never splits inside a word unless a
// single word exceeds maxWidth, in which case the word is hard-split.
// Existing line breaks are preserved.
func (p *Paginator) WrapText(text string, maxWidth float64, font FontSpec) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, p.wrapParagraph(paragraph, maxWidth, font)...)
	}
	return lines
}

func (p *Paginator) wrapParagraph(paragraph string, maxWidth float64, font FontSpec) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		if p.canvas.StringWidth(word, font) > maxWidth {
			// Oversized word: flush the current line, then hard-split.
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			pieces := p.hardSplit(word, maxWidth, font)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
			continue
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if p.canvas.StringWidth(candidate, font) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// hardSplit chops a word that cannot fit on a single line into maximal
// fitting pieces. Each piece keeps at least one rune so progress is
// guaranteed.
func (p *Paginator) hardSplit(word string, maxWidth float64, font FontSpec) []string {
	var pieces []string
	var piece []rune
	for _, r := range word {
		candidate := append(piece, r)
		if len(piece) > 0 && p.canvas.StringWidth(string(candidate), font) > maxWidth {
			pieces = append(pieces, string(piece))
			piece = []rune{r}
			continue
		}
		piece = candidate
	}
	if len(piece) > 0 {
		pieces = append(pieces, string(piece))
	}
	return pieces
}

// TextWidth measures text in the given font via the canvas metrics.
func (p *Paginator) TextWidth(text string, font FontSpec) float64 {
	return p.canvas.StringWidth(text, font)
}

// PlaceLines draws pre-wrapped lines at the given x offset (relative to the
// left margin), breaking the page whenever the next line no longer fits.
func (p *Paginator) PlaceLines(x float64, lines []string, font FontSpec, lineHeight float64) error {
	p.start()
	for _, line := range lines {
		if p.RemainingHeight() < lineHeight {
			if err := p.BreakPage(); err != nil {
				return err
			}
		}
		p.drawLine(x, line, font, lineHeight)
	}
	return nil
}

// drawLine draws one line at the cursor and advances it. The baseline sits
// at 80% of the line height, which keeps ascenders inside the advance box.
func (p *Paginator) drawLine(x float64, line string, font FontSpec, lineHeight float64) {
	if line != "" {
		p.canvas.DrawText(p.geom.MarginLeft+x, p.cursorY+lineHeight*0.8, font, line)
	}
	p.cursorY += lineHeight
}

// DrawTextAt draws a single line at an absolute offset from the left margin
// without moving the cursor. Rows use it for multi-column layout.
func (p *Paginator) DrawTextAt(x, baselineOffset float64, font FontSpec, text string) {
	p.start()
	p.canvas.DrawText(p.geom.MarginLeft+x, p.cursorY+baselineOffset, font, text)
}

// DrawRule draws a horizontal rule across the printable width at the cursor.
func (p *Paginator) DrawRule() {
	p.start()
	p.canvas.DrawLine(p.geom.MarginLeft, p.cursorY, p.geom.Width-p.geom.MarginRight, p.cursorY)
}

// DrawRuleSpan draws a horizontal rule between two offsets from the left
// margin at the cursor.
func (p *Paginator) DrawRuleSpan(x1, x2 float64) {
	p.start()
	p.canvas.DrawLine(p.geom.MarginLeft+x1, p.cursorY, p.geom.MarginLeft+x2, p.cursorY)
}

// PlaceImage draws an image at the cursor and advances by its height.
func (p *Paginator) PlaceImage(name string, data []byte, x, w, h float64) error {
	p.start()
	if err := p.canvas.DrawImage(name, data, p.geom.MarginLeft+x, p.cursorY, w); err != nil {
		return err
	}
	p.cursorY += h
	return nil
}

// PlaceBlock lays out one section. A section flagged StartsOnFreshPage opens
// a new page unless the cursor is already at a page top. Rows are atomic:
// when a row does not fit in the remaining height, the page breaks before
// any part of the row is drawn, and a table section redraws its header row
// after every in-table break.
func (p *Paginator) PlaceBlock(section *Section) error {
	p.start()
	if section.StartsOnFreshPage && !p.AtPageTop() {
		if err := p.BreakPage(); err != nil {
			return err
		}
	}

	drawHeader := func() error {
		if section.Header == nil {
			return nil
		}
		return section.Header.Draw(p)
	}

	if section.Header != nil {
		headerHeight := section.Header.Height(p)
		firstRowHeight := 0.0
		if len(section.Rows) > 0 {
			firstRowHeight = section.Rows[0].Height(p)
		}
		// The header never sits alone at the bottom of a page.
		if err := p.EnsureRoom(headerHeight + firstRowHeight); err != nil {
			return err
		}
		if err := drawHeader(); err != nil {
			return err
		}
	}

	for _, row := range section.Rows {
		height := row.Height(p)
		if p.RemainingHeight() < height && !p.AtPageTop() {
			if err := p.BreakPage(); err != nil {
				return err
			}
			if err := drawHeader(); err != nil {
				return err
			}
		}
		if err := row.Draw(p); err != nil {
			return err
		}
	}
	return nil
}
