package render

import (
	"strconv"
	"strings"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/money"
)

// Item table column layout, in millimeters from the left margin. The
// printable width of an A4 page with the default geometry is 180mm.
const (
	colLabelX     = 0.0
	colLabelW     = 84.0
	colQuantityX  = 86.0
	colQuantityW  = 16.0
	colUnitX      = 104.0
	colUnitW      = 12.0
	colUnitPriceX = 118.0
	colUnitPriceW = 28.0
	colTotalX     = 148.0
	colTotalW     = 32.0
)

// itemHeaderRow is the column-header row of the line-item table. PlaceBlock
// repeats it after every page break that occurs mid-table.
type itemHeaderRow struct{}

func (r *itemHeaderRow) Height(p *Paginator) float64 {
	return lineHeightBody + 2.4
}

func (r *itemHeaderRow) Draw(p *Paginator) error {
	baseline := lineHeightBody * 0.8
	p.DrawTextAt(colLabelX, baseline, fontBodyBold, "Désignation")
	drawRightAligned(p, colQuantityX+colQuantityW, baseline, fontBodyBold, "Qté")
	p.DrawTextAt(colUnitX, baseline, fontBodyBold, "Unité")
	drawRightAligned(p, colUnitPriceX+colUnitPriceW, baseline, fontBodyBold, "PU HT")
	drawRightAligned(p, colTotalX+colTotalW, baseline, fontBodyBold, "Total HT")
	p.Advance(lineHeightBody + 1.2)
	p.DrawRule()
	p.Advance(1.2)
	return nil
}

// itemRow is one line item: label, quantity, unit, unit price and line
// total, plus the wrapped description lines underneath. The whole row is
// atomic with respect to page breaks.
type itemRow struct {
	item     document.LineItem
	currency string

	labelLines []string
	descLines  []string
}

func (r *itemRow) wrap(p *Paginator) {
	if r.labelLines == nil {
		r.labelLines = p.WrapText(r.item.Label, colLabelW, fontBody)
		if r.item.Description != "" {
			r.descLines = p.WrapText(r.item.Description, colLabelW-3, fontSmall)
		}
	}
}

func (r *itemRow) Height(p *Paginator) float64 {
	r.wrap(p)
	h := float64(len(r.labelLines))*lineHeightBody + float64(len(r.descLines))*lineHeightSmall
	return h + 1.6
}

func (r *itemRow) Draw(p *Paginator) error {
	r.wrap(p)
	baseline := lineHeightBody * 0.8

	// Numeric columns align with the first label line.
	drawRightAligned(p, colQuantityX+colQuantityW, baseline, fontBody, formatQuantity(r.item.Quantity))
	p.DrawTextAt(colUnitX, baseline, fontBody, r.item.Unit)
	drawRightAligned(p, colUnitPriceX+colUnitPriceW, baseline, fontBody, unitPriceDisplay(r.item, r.currency))
	drawRightAligned(p, colTotalX+colTotalW, baseline, fontBody, money.FormatAmount(r.item.TotalCents, r.currency))

	for _, line := range r.labelLines {
		p.DrawTextAt(colLabelX, baseline, fontBody, line)
		p.Advance(lineHeightBody)
	}
	for _, line := range r.descLines {
		p.DrawTextAt(colLabelX+3, lineHeightSmall*0.8, fontSmall, line)
		p.Advance(lineHeightSmall)
	}
	p.Advance(1.6)
	return nil
}

// unitPriceDisplay renders the unit price. An item carrying an explicit
// discount shows the pre-discount price and the discount label next to the
// effective price.
func unitPriceDisplay(item document.LineItem, currency string) string {
	display := money.FormatAmount(item.UnitPriceCents, currency)
	if item.OriginalPriceCents > item.UnitPriceCents {
		display = money.FormatAmount(item.OriginalPriceCents, currency) + " > " + display
	}
	if item.Discount != nil && item.Discount.Label != "" {
		display += " (" + item.Discount.Label + ")"
	}
	return display
}

// formatQuantity renders a quantity with a comma decimal separator and up
// to two fraction digits, trailing zeros removed.
func formatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return strings.Replace(s, ".", ",", 1)
}

// drawRightAligned draws text so its right edge sits at x.
func drawRightAligned(p *Paginator, x, baselineOffset float64, font FontSpec, text string) {
	p.DrawTextAt(x-p.TextWidth(text, font), baselineOffset, font, text)
}

// itemsSection builds the line-item table section for a payload.
func itemsSection(payload *document.Payload) *Section {
	rows := make([]Row, 0, len(payload.Items))
	for _, item := range payload.Items {
		rows = append(rows, &itemRow{item: item, currency: payload.Currency})
	}
	return &Section{
		Name:   "items",
		Header: &itemHeaderRow{},
		Rows:   rows,
	}
}
