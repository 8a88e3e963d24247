package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/money"
)

// CanvasFactory creates a fresh canvas for one build. Production code uses
// NewFpdfCanvas; tests substitute fakes.
type CanvasFactory func(title string) Canvas

// BuildOptions carries per-build inputs that are not part of the payload.
type BuildOptions struct {
	// Logo is the business logo image bytes, already fetched. Nil skips the
	// logo row.
	Logo []byte
	// MaxPages overrides the page-count guard. Zero keeps DefaultMaxPages.
	MaxPages int
}

// BuildResult is the output of a successful build.
type BuildResult struct {
	PDF       []byte
	PageCount int
}

// Builder assembles one document type into a byte buffer.
type Builder interface {
	// DocType returns the document type this builder handles.
	DocType() document.DocType
	// Build validates the payload and renders it. It either returns the
	// complete buffer or fails atomically with a *document.ValidationError,
	// *LayoutOverflowError or *RenderError.
	Build(payload document.Payload, opts BuildOptions) (*BuildResult, error)
}

// variant supplies the per-document-type pieces of the fixed section order.
type variant interface {
	// title is the document heading, e.g. "FACTURE".
	title() string
	// scheduleRows returns the variant-specific date and deposit rows of
	// the metadata block.
	scheduleRows(payload *document.Payload) []Row
	// totalsRows returns the variant-specific tail of the totals block.
	totalsRows(payload *document.Payload) []Row
}

// buildDocument runs the full pipeline shared by all document types:
// validate, sanitize, assemble the fixed section order, paginate, serialize.
func buildDocument(factory CanvasFactory, v variant, payload document.Payload, opts BuildOptions) (*BuildResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	sanitizePayload(&payload)

	canvas := factory(v.title() + " " + payload.Number)
	paginator := NewPaginator(canvas, A4Portrait(), opts.MaxPages)

	for _, section := range assembleSections(v, &payload, opts) {
		if err := paginator.PlaceBlock(section); err != nil {
			return nil, err
		}
	}

	pdf, err := canvas.Output()
	if err != nil {
		return nil, err
	}
	return &BuildResult{PDF: pdf, PageCount: paginator.PageCount()}, nil
}

// assembleSections produces the fixed section order: identity header,
// document metadata, client block, project block, line-item table, totals,
// legal block, footer.
func assembleSections(v variant, payload *document.Payload, opts BuildOptions) []*Section {
	sections := []*Section{
		identitySection(&payload.Business, opts.Logo),
		metadataSection(v, payload),
		clientSection(&payload.Client),
	}
	if s := projectSection(payload); s != nil {
		sections = append(sections, s)
	}
	sections = append(sections,
		itemsSection(payload),
		totalsSection(v, payload),
	)
	if s := legalSection(&payload.Business); s != nil {
		sections = append(sections, s)
	}
	if s := footerSection(payload); s != nil {
		sections = append(sections, s)
	}
	return sections
}

// sanitizePayload runs the text sanitizer over every free-text field. The
// payload is a private copy, so callers never observe the rewrite.
func sanitizePayload(p *document.Payload) {
	p.Number = Sanitize(p.Number)
	p.Business.LegalName = Sanitize(p.Business.LegalName)
	p.Business.SIRET = Sanitize(p.Business.SIRET)
	p.Business.VATNumber = Sanitize(p.Business.VATNumber)
	p.Business.IBAN = Sanitize(p.Business.IBAN)
	p.Business.BIC = Sanitize(p.Business.BIC)
	p.Business.LegalClauses = Sanitize(p.Business.LegalClauses)
	sanitizeLines(p.Business.AddressLines)
	p.Client.Name = Sanitize(p.Client.Name)
	p.Client.Company = Sanitize(p.Client.Company)
	p.Client.Email = Sanitize(p.Client.Email)
	p.Client.Phone = Sanitize(p.Client.Phone)
	sanitizeLines(p.Client.AddressLines)
	p.ProjectTitle = Sanitize(p.ProjectTitle)
	p.Description = Sanitize(p.Description)
	p.Note = Sanitize(p.Note)
	for i := range p.Items {
		p.Items[i].Label = Sanitize(p.Items[i].Label)
		p.Items[i].Description = Sanitize(p.Items[i].Description)
		p.Items[i].Unit = Sanitize(p.Items[i].Unit)
		if p.Items[i].Discount != nil {
			d := *p.Items[i].Discount
			d.Label = Sanitize(d.Label)
			p.Items[i].Discount = &d
		}
	}
}

func sanitizeLines(lines []string) {
	for i, line := range lines {
		lines[i] = Sanitize(line)
	}
}

// identitySection renders the issuing business block: optional logo, legal
// name and the registration identifiers.
func identitySection(b *document.BusinessIdentity, logo []byte) *Section {
	var rows []Row
	if logo != nil {
		rows = append(rows,
			&ImageRow{Name: "business-logo", Data: logo, W: 34, H: 16},
			&Spacer{H: 2},
		)
	}
	rows = append(rows, &TextRow{Text: b.LegalName, Font: FontSpec{Family: "Helvetica", Style: "B", Size: 12}, LineHeight: 5.2})
	for _, line := range b.AddressLines {
		rows = append(rows, &TextRow{Text: line, Font: fontBody, LineHeight: lineHeightBody})
	}
	var ids []string
	if b.SIRET != "" {
		ids = append(ids, "SIRET "+b.SIRET)
	}
	if b.VATNumber != "" {
		ids = append(ids, "TVA "+b.VATNumber)
	}
	if len(ids) > 0 {
		rows = append(rows, &TextRow{Text: strings.Join(ids, " - "), Font: fontSmall, LineHeight: lineHeightSmall})
	}
	rows = append(rows, &Spacer{H: 6})
	return &Section{Name: "identity", Rows: rows}
}

// metadataSection renders the document title, number and schedule dates.
func metadataSection(v variant, payload *document.Payload) *Section {
	rows := []Row{
		&TextRow{Text: v.title() + " n° " + payload.Number, Font: fontTitle, LineHeight: lineHeightTitle},
		&Spacer{H: 1.5},
		&KeyValueRow{Key: "Date d'émission :", Value: payload.IssuedAt.Format("02/01/2006")},
	}
	rows = append(rows, v.scheduleRows(payload)...)
	rows = append(rows, &Spacer{H: 6})
	return &Section{Name: "metadata", Rows: rows}
}

// clientSection renders the recipient block.
func clientSection(c *document.ClientIdentity) *Section {
	rows := []Row{
		&TextRow{Text: "Client", Font: fontHeading, LineHeight: lineHeightHeading},
	}
	if c.Company != "" {
		rows = append(rows, &TextRow{Text: c.Company, Font: fontBodyBold, LineHeight: lineHeightBody})
	}
	if c.Name != "" {
		rows = append(rows, &TextRow{Text: c.Name, Font: fontBody, LineHeight: lineHeightBody})
	}
	for _, line := range c.AddressLines {
		rows = append(rows, &TextRow{Text: line, Font: fontBody, LineHeight: lineHeightBody})
	}
	var contact []string
	if c.Email != "" {
		contact = append(contact, c.Email)
	}
	if c.Phone != "" {
		contact = append(contact, c.Phone)
	}
	if len(contact) > 0 {
		rows = append(rows, &TextRow{Text: strings.Join(contact, " - "), Font: fontSmall, LineHeight: lineHeightSmall})
	}
	rows = append(rows, &Spacer{H: 6})
	return &Section{Name: "client", Rows: rows}
}

// projectSection renders the project title and free description. It wraps
// normally and never forces a fresh page.
func projectSection(payload *document.Payload) *Section {
	if payload.ProjectTitle == "" && payload.Description == "" {
		return nil
	}
	var rows []Row
	if payload.ProjectTitle != "" {
		rows = append(rows, &TextRow{Text: payload.ProjectTitle, Font: fontHeading, LineHeight: lineHeightHeading})
	}
	if payload.Description != "" {
		rows = append(rows, &FlowText{Text: payload.Description, Font: fontBody, LineHeight: lineHeightBody})
	}
	rows = append(rows, &Spacer{H: 6})
	return &Section{Name: "project", StartsOnFreshPage: false, Rows: rows}
}

// totalsSection renders the monetary summary. All amounts are the
// caller-supplied integers; the VAT line is derived for display only.
func totalsSection(v variant, payload *document.Payload) *Section {
	rows := []Row{
		&Spacer{H: 2},
		&AmountRow{Label: "Total HT", Amount: money.FormatAmount(payload.Totals.TotalCents, payload.Currency)},
	}
	if payload.VATEnabled {
		vatCents := vatAmountCents(payload.Totals.TotalCents, payload.VATRatePercent)
		rows = append(rows,
			&AmountRow{
				Label:  "TVA (" + formatQuantity(payload.VATRatePercent) + " %)",
				Amount: money.FormatAmount(vatCents, payload.Currency),
			},
			&AmountRow{
				Label:    "Total TTC",
				Amount:   money.FormatAmount(payload.Totals.TotalCents+vatCents, payload.Currency),
				Emphasis: true,
			},
		)
	} else {
		rows = append(rows,
			&AmountRow{Label: "Total", Amount: money.FormatAmount(payload.Totals.TotalCents, payload.Currency), Emphasis: true},
			&TextRow{Text: "TVA non applicable, art. 293 B du CGI", Font: fontSmall, LineHeight: lineHeightSmall,
				Indent: A4Portrait().PrintableWidth() - totalsBlockWidth, Width: totalsBlockWidth},
		)
	}
	rows = append(rows, v.totalsRows(payload)...)
	rows = append(rows, &Spacer{H: 4})
	return &Section{Name: "totals", Rows: rows}
}

// vatAmountCents derives the display VAT amount from the authoritative
// pre-tax total, rounded half away from zero to the cent.
func vatAmountCents(totalCents int64, ratePercent float64) int64 {
	vat := decimal.NewFromInt(totalCents).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return vat.IntPart()
}

// legalSection renders the CGV / payment-terms clause block. When clause
// text is present it always begins on a fresh page.
func legalSection(b *document.BusinessIdentity) *Section {
	hasClauses := b.LegalClauses != ""
	hasBank := b.IBAN != "" || b.BIC != ""
	if !hasClauses && !hasBank {
		return nil
	}
	var rows []Row
	if hasClauses {
		rows = append(rows,
			&TextRow{Text: "Conditions générales et modalités de paiement", Font: fontHeading, LineHeight: lineHeightHeading},
			&Spacer{H: 1.5},
			&FlowText{Text: b.LegalClauses, Font: fontSmall, LineHeight: lineHeightSmall},
			&Spacer{H: 4},
		)
	}
	if hasBank {
		rows = append(rows, &TextRow{Text: "Règlement par virement bancaire", Font: fontBodyBold, LineHeight: lineHeightBody})
		if b.IBAN != "" {
			rows = append(rows, &KeyValueRow{Key: "IBAN :", Value: b.IBAN})
		}
		if b.BIC != "" {
			rows = append(rows, &KeyValueRow{Key: "BIC :", Value: b.BIC})
		}
	}
	return &Section{Name: "legal", StartsOnFreshPage: hasClauses, Rows: rows}
}

// footerSection renders the free-form note and the closing line.
func footerSection(payload *document.Payload) *Section {
	var rows []Row
	if payload.Note != "" {
		rows = append(rows,
			&Spacer{H: 4},
			&FlowText{Text: payload.Note, Font: fontSmall, LineHeight: lineHeightSmall},
		)
	}
	rows = append(rows,
		&Spacer{H: 4},
		&TextRow{Text: "Merci de votre confiance.", Font: fontSmall, LineHeight: lineHeightSmall},
	)
	return &Section{Name: "footer", Rows: rows}
}

// formatPercent renders a percentage with up to two decimals.
func formatPercent(v float64) string {
	return formatQuantity(v) + " %"
}
