package render

import (
	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/money"
)

// QuoteBuilder renders QUOTE documents. Quotes carry an expiry date and the
// requested deposit percentage on top of the shared section order.
type QuoteBuilder struct {
	factory CanvasFactory
}

// NewQuoteBuilder creates a QuoteBuilder. A nil factory selects the gofpdf
// canvas.
func NewQuoteBuilder(factory CanvasFactory) *QuoteBuilder {
	if factory == nil {
		factory = NewFpdfCanvas
	}
	return &QuoteBuilder{factory: factory}
}

// DocType returns the document type this builder handles.
func (b *QuoteBuilder) DocType() document.DocType {
	return document.DocTypeQuote
}

// Build renders the quote into a complete PDF buffer.
func (b *QuoteBuilder) Build(payload document.Payload, opts BuildOptions) (*BuildResult, error) {
	return buildDocument(b.factory, quoteVariant{}, payload, opts)
}

type quoteVariant struct{}

func (quoteVariant) title() string { return "DEVIS" }

func (quoteVariant) scheduleRows(payload *document.Payload) []Row {
	var rows []Row
	if payload.DueAt != nil {
		rows = append(rows, &KeyValueRow{Key: "Valable jusqu'au :", Value: payload.DueAt.Format("02/01/2006")})
	}
	if payload.DepositPercent > 0 {
		rows = append(rows, &KeyValueRow{
			Key:   "Acompte à la commande :",
			Value: formatPercent(payload.DepositPercent),
		})
	}
	return rows
}

func (quoteVariant) totalsRows(payload *document.Payload) []Row {
	var rows []Row
	if payload.Totals.DepositCents > 0 {
		label := "Acompte"
		if payload.DepositPercent > 0 {
			label = "Acompte (" + formatPercent(payload.DepositPercent) + ")"
		}
		rows = append(rows,
			&AmountRow{Label: label, Amount: money.FormatAmount(payload.Totals.DepositCents, payload.Currency)},
			&AmountRow{Label: "Solde à la livraison", Amount: money.FormatAmount(payload.Totals.BalanceCents, payload.Currency)},
		)
	}
	return rows
}
