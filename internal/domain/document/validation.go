package document

import "fmt"

// ValidationError reports a missing or invalid required payload field.
// Validation runs before any page is created, so a failed payload never
// produces a partial document.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validate checks that the payload carries everything rendering requires.
// It returns the first *ValidationError encountered, or nil.
func (p *Payload) Validate() error {
	if !p.Type.IsValid() {
		return newValidationError("type", "unknown document type "+string(p.Type))
	}
	if p.Number == "" {
		return newValidationError("number", "document number is required")
	}
	if p.Business.LegalName == "" {
		return newValidationError("business.legal_name", "business legal name is required")
	}
	if len(p.Items) == 0 {
		return newValidationError("items", "at least one line item is required")
	}
	for i, item := range p.Items {
		if item.Label == "" {
			return newValidationError(fmt.Sprintf("items[%d].label", i), "line item label is required")
		}
		if item.Quantity <= 0 {
			return newValidationError(fmt.Sprintf("items[%d].quantity", i), "quantity must be positive")
		}
		if item.UnitPriceCents < 0 {
			return newValidationError(fmt.Sprintf("items[%d].unit_price_cents", i), "unit price cannot be negative")
		}
		if item.TotalCents < 0 {
			return newValidationError(fmt.Sprintf("items[%d].total_cents", i), "line total cannot be negative")
		}
	}
	if p.Totals.TotalCents < 0 {
		return newValidationError("totals.total_cents", "total cannot be negative")
	}
	if p.Totals.DepositCents < 0 {
		return newValidationError("totals.deposit_cents", "deposit cannot be negative")
	}
	if p.Totals.BalanceCents < 0 {
		return newValidationError("totals.balance_cents", "balance cannot be negative")
	}
	if p.Currency == "" {
		return newValidationError("currency", "currency code is required")
	}
	if p.VATEnabled && (p.VATRatePercent < 0 || p.VATRatePercent > 100) {
		return newValidationError("vat_rate_percent", "VAT rate must be between 0 and 100")
	}
	if p.IssuedAt.IsZero() {
		return newValidationError("issued_at", "issue date is required")
	}
	return nil
}
