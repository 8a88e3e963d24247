// Package document defines the payload model for financial documents
// (quotes and invoices) handed to the rendering pipeline. The payload is a
// pure value object: all monetary fields are integer cents supplied by the
// caller, and the renderer never re-derives them.
package document

import "time"

// DocType identifies the kind of financial document being rendered.
type DocType string

const (
	DocTypeQuote   DocType = "QUOTE"
	DocTypeInvoice DocType = "INVOICE"
)

// IsValid reports whether the document type is a known type.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeQuote, DocTypeInvoice:
		return true
	}
	return false
}

// String returns the string representation of the document type.
func (t DocType) String() string {
	return string(t)
}

// AllDocTypes returns every renderable document type.
func AllDocTypes() []DocType {
	return []DocType{DocTypeQuote, DocTypeInvoice}
}

// BusinessIdentity holds the issuing business details printed in the
// identity header and the legal block.
type BusinessIdentity struct {
	LegalName    string
	AddressLines []string
	SIRET        string // French business registration number
	VATNumber    string
	IBAN         string
	BIC          string
	LogoURL      string // optional, fetched through the asset cache
	LegalClauses string // CGV / payment-terms clause text, may be many paragraphs
}

// ClientIdentity holds the recipient details printed in the client block.
type ClientIdentity struct {
	Name         string
	Company      string
	AddressLines []string
	Email        string
	Phone        string
}

// Discount describes an explicit per-line discount, display-only.
type Discount struct {
	Label string // e.g. "-10%" or "remise fidélité"
}

// LineItem is one billed row of the document. TotalCents is authoritative
// and caller-supplied; the renderer only displays it.
type LineItem struct {
	Label              string
	Description        string
	Quantity           float64 // positive; fractional for time-based billing
	Unit               string  // billing unit label, e.g. "jour", "h", "u"
	UnitPriceCents     int64
	OriginalPriceCents int64 // pre-discount unit price, 0 when no discount
	Discount           *Discount
	TotalCents         int64
}

// Totals carries the caller-computed monetary summary in integer cents.
type Totals struct {
	TotalCents   int64
	DepositCents int64
	BalanceCents int64
}

// Payload is the full input for rendering one document.
type Payload struct {
	DocumentID     string
	Number         string // externally allocated, already formatted
	Type           DocType
	Business       BusinessIdentity
	Client         ClientIdentity
	ProjectTitle   string
	Description    string
	Items          []LineItem
	Totals         Totals
	Currency       string // ISO 4217 code, e.g. "EUR"
	VATEnabled     bool
	VATRatePercent float64
	DepositPercent float64 // quote only
	IssuedAt       time.Time
	DueAt          *time.Time // invoice: due date; quote: expiry date
	PaidAt         *time.Time // invoice only, optional
	Note           string     // free-form footer note
}
