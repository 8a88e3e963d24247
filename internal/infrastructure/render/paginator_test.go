package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCanvas records drawing operations and measures text at a fixed width
// per rune, which makes wrapping deterministic without font metrics.
type fakeCanvas struct {
	runeWidth float64
	pages     int
	texts     []fakeText
}

type fakeText struct {
	page int
	x, y float64
	text string
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{runeWidth: 2}
}

func (c *fakeCanvas) AddPage() { c.pages++ }

func (c *fakeCanvas) DrawText(x, y float64, _ FontSpec, text string) {
	c.texts = append(c.texts, fakeText{page: c.pages, x: x, y: y, text: text})
}

func (c *fakeCanvas) DrawLine(x1, y1, x2, y2 float64) {}

func (c *fakeCanvas) DrawImage(name string, data []byte, x, y, w float64) error { return nil }

func (c *fakeCanvas) StringWidth(text string, _ FontSpec) float64 {
	return float64(len([]rune(text))) * c.runeWidth
}

func (c *fakeCanvas) Output() ([]byte, error) { return []byte("%PDF-fake"), nil }

func (c *fakeCanvas) textsOnPage(page int) []string {
	var out []string
	for _, t := range c.texts {
		if t.page == page {
			out = append(out, t.text)
		}
	}
	return out
}

func testGeometry() PageGeometry {
	return PageGeometry{
		Width:        100,
		Height:       100,
		MarginTop:    10,
		MarginBottom: 10,
		MarginLeft:   10,
		MarginRight:  10,
	}
}

func TestPaginator_LazyFirstPage(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	assert.Equal(t, 0, canvas.pages, "no page before the first drawing operation")
	assert.Equal(t, 0, p.PageCount())

	p.DrawTextAt(0, 4, fontBody, "hello")
	assert.Equal(t, 1, canvas.pages)
	assert.Equal(t, 1, p.PageCount())
}

func TestPaginator_WrapText(t *testing.T) {
	canvas := newFakeCanvas() // 2mm per rune
	p := NewPaginator(canvas, testGeometry(), 0)

	// 20mm fits 10 runes per line
	lines := p.WrapText("aaa bbb ccc", 20, fontBody)
	assert.Equal(t, []string{"aaa bbb", "ccc"}, lines)

	// existing line breaks are preserved
	lines = p.WrapText("aaa\nbbb", 20, fontBody)
	assert.Equal(t, []string{"aaa", "bbb"}, lines)

	// blank paragraph survives as an empty line
	lines = p.WrapText("aaa\n\nbbb", 20, fontBody)
	assert.Equal(t, []string{"aaa", "", "bbb"}, lines)
}

func TestPaginator_WrapTextHardSplit(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	// a 25-rune word cannot fit 10 runes per line and must be chopped
	word := strings.Repeat("x", 25)
	lines := p.WrapText(word, 20, fontBody)
	assert.Equal(t, []string{
		strings.Repeat("x", 10),
		strings.Repeat("x", 10),
		strings.Repeat("x", 5),
	}, lines)

	// pieces always keep at least one rune even when nothing fits
	lines = p.WrapText("abc", 1, fontBody)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestPaginator_PlaceLinesBreaksPages(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	// printable height is 80mm; 10mm lines fit 8 per page
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "line"
	}
	require.NoError(t, p.PlaceLines(0, lines, fontBody, 10))

	assert.Equal(t, 2, p.PageCount())
	assert.Len(t, canvas.textsOnPage(1), 8)
	assert.Len(t, canvas.textsOnPage(2), 4)
}

func TestPaginator_MaxPagesGuard(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 2)

	require.NoError(t, p.BreakPage())
	err := p.BreakPage()
	require.Error(t, err)

	var overflow *LayoutOverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 2, overflow.Pages)
	assert.Equal(t, 2, overflow.MaxPages)
}

func TestPaginator_EnsureRoom(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	// at page top, even an oversized block stays put
	require.NoError(t, p.EnsureRoom(500))
	assert.Equal(t, 1, p.PageCount())

	p.Advance(70)
	require.NoError(t, p.EnsureRoom(20))
	assert.Equal(t, 2, p.PageCount())
	assert.Equal(t, 10.0, p.CursorY())
}

// staticRow is an atomic test row of fixed height.
type staticRow struct {
	height float64
	label  string
}

func (r *staticRow) Height(*Paginator) float64 { return r.height }

func (r *staticRow) Draw(p *Paginator) error {
	p.DrawTextAt(0, r.height*0.8, fontBody, r.label)
	p.Advance(r.height)
	return nil
}

func TestPaginator_PlaceBlockRowAtomicity(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	// 30mm rows: two fit in 80mm, the third moves whole to page 2
	section := &Section{
		Name: "items",
		Rows: []Row{
			&staticRow{height: 30, label: "row-1"},
			&staticRow{height: 30, label: "row-2"},
			&staticRow{height: 30, label: "row-3"},
		},
	}
	require.NoError(t, p.PlaceBlock(section))

	assert.Equal(t, []string{"row-1", "row-2"}, canvas.textsOnPage(1))
	assert.Equal(t, []string{"row-3"}, canvas.textsOnPage(2))
}

func TestPaginator_PlaceBlockHeaderRepeats(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	section := &Section{
		Name:   "items",
		Header: &staticRow{height: 10, label: "header"},
		Rows: []Row{
			&staticRow{height: 30, label: "row-1"},
			&staticRow{height: 30, label: "row-2"},
			&staticRow{height: 30, label: "row-3"},
		},
	}
	require.NoError(t, p.PlaceBlock(section))

	// header + two rows on page 1, header redrawn before row 3 on page 2
	assert.Equal(t, []string{"header", "row-1", "row-2"}, canvas.textsOnPage(1))
	assert.Equal(t, []string{"header", "row-3"}, canvas.textsOnPage(2))
}

func TestPaginator_PlaceBlockHeaderNeverAlone(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	// leave 15mm: enough for the 10mm header but not header+row
	p.Advance(65)

	section := &Section{
		Name:   "items",
		Header: &staticRow{height: 10, label: "header"},
		Rows:   []Row{&staticRow{height: 30, label: "row-1"}},
	}
	require.NoError(t, p.PlaceBlock(section))

	assert.Empty(t, canvas.textsOnPage(1))
	assert.Equal(t, []string{"header", "row-1"}, canvas.textsOnPage(2))
}

func TestPaginator_FreshPageSection(t *testing.T) {
	canvas := newFakeCanvas()
	p := NewPaginator(canvas, testGeometry(), 0)

	first := &Section{Name: "a", Rows: []Row{&staticRow{height: 10, label: "a"}}}
	fresh := &Section{
		Name:              "b",
		StartsOnFreshPage: true,
		Rows:              []Row{&staticRow{height: 10, label: "b"}},
	}
	require.NoError(t, p.PlaceBlock(first))
	require.NoError(t, p.PlaceBlock(fresh))

	assert.Equal(t, []string{"a"}, canvas.textsOnPage(1))
	assert.Equal(t, []string{"b"}, canvas.textsOnPage(2))

	// a fresh-page section at a page top does not waste a blank page
	canvas2 := newFakeCanvas()
	p2 := NewPaginator(canvas2, testGeometry(), 0)
	require.NoError(t, p2.PlaceBlock(fresh))
	assert.Equal(t, 1, p2.PageCount())
}
