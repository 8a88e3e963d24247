package render

import (
	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/money"
)

// InvoiceBuilder renders INVOICE documents. Invoices carry a due date and,
// when settled, a paid-at date; they never show a quote expiry.
type InvoiceBuilder struct {
	factory CanvasFactory
}

// NewInvoiceBuilder creates an InvoiceBuilder. A nil factory selects the
// gofpdf canvas.
func NewInvoiceBuilder(factory CanvasFactory) *InvoiceBuilder {
	if factory == nil {
		factory = NewFpdfCanvas
	}
	return &InvoiceBuilder{factory: factory}
}

// DocType returns the document type this builder handles.
func (b *InvoiceBuilder) DocType() document.DocType {
	return document.DocTypeInvoice
}

// Build renders the invoice into a complete PDF buffer.
func (b *InvoiceBuilder) Build(payload document.Payload, opts BuildOptions) (*BuildResult, error) {
	return buildDocument(b.factory, invoiceVariant{}, payload, opts)
}

type invoiceVariant struct{}

func (invoiceVariant) title() string { return "FACTURE" }

func (invoiceVariant) scheduleRows(payload *document.Payload) []Row {
	var rows []Row
	if payload.DueAt != nil {
		rows = append(rows, &KeyValueRow{Key: "Date d'échéance :", Value: payload.DueAt.Format("02/01/2006")})
	}
	if payload.PaidAt != nil {
		rows = append(rows, &KeyValueRow{Key: "Réglée le :", Value: payload.PaidAt.Format("02/01/2006")})
	}
	return rows
}

func (invoiceVariant) totalsRows(payload *document.Payload) []Row {
	var rows []Row
	if payload.Totals.DepositCents > 0 {
		rows = append(rows,
			&AmountRow{Label: "Acompte déjà versé", Amount: money.FormatAmount(payload.Totals.DepositCents, payload.Currency)},
			&AmountRow{Label: "Reste à payer", Amount: money.FormatAmount(payload.Totals.BalanceCents, payload.Currency), Emphasis: true},
		)
	}
	return rows
}
