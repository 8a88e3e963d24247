package rendering

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/money"
	"github.com/facturio/backend/internal/domain/shared"
)

// =============================================================================
// Render DTOs
// =============================================================================

// RenderRequest represents a request to render a financial document.
// Monetary amounts arrive as strings in whatever format the caller typed
// ("1 250,00", "1250.00", "1250") and are parsed to integer cents.
type RenderRequest struct {
	DocumentID     string         `json:"document_id" binding:"omitempty,uuid"`
	Type           string         `json:"type" binding:"required"`
	Number         string         `json:"number" binding:"required,max=64"`
	Business       BusinessDTO    `json:"business" binding:"required"`
	Client         ClientDTO      `json:"client"`
	ProjectTitle   string         `json:"project_title" binding:"max=200"`
	Description    string         `json:"description"`
	Items          []LineItemDTO  `json:"items" binding:"required,min=1,dive"`
	Totals         TotalsDTO      `json:"totals" binding:"required"`
	Currency       string         `json:"currency" binding:"omitempty,len=3"`
	VATEnabled     bool           `json:"vat_enabled"`
	VATRatePercent float64        `json:"vat_rate_percent" binding:"min=0,max=100"`
	DepositPercent float64        `json:"deposit_percent" binding:"min=0,max=100"`
	IssuedAt       string         `json:"issued_at" binding:"required"`
	DueAt          string         `json:"due_at"`
	PaidAt         string         `json:"paid_at"`
	Note           string         `json:"note"`
}

// BusinessDTO represents the issuing business identity
type BusinessDTO struct {
	LegalName    string   `json:"legal_name" binding:"required,max=200"`
	AddressLines []string `json:"address_lines" binding:"max=6"`
	SIRET        string   `json:"siret" binding:"max=20"`
	VATNumber    string   `json:"vat_number" binding:"max=20"`
	IBAN         string   `json:"iban" binding:"max=40"`
	BIC          string   `json:"bic" binding:"max=16"`
	LogoURL      string   `json:"logo_url" binding:"omitempty,url"`
	LegalClauses string   `json:"legal_clauses"`
}

// ClientDTO represents the document recipient
type ClientDTO struct {
	Name         string   `json:"name" binding:"max=200"`
	Company      string   `json:"company" binding:"max=200"`
	AddressLines []string `json:"address_lines" binding:"max=6"`
	Email        string   `json:"email" binding:"omitempty,email"`
	Phone        string   `json:"phone" binding:"max=30"`
}

// LineItemDTO represents one billed line
type LineItemDTO struct {
	Label         string  `json:"label" binding:"required,max=300"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	Unit          string  `json:"unit" binding:"max=20"`
	UnitPrice     string  `json:"unit_price" binding:"required"`
	OriginalPrice string  `json:"original_price"`
	DiscountLabel string  `json:"discount_label" binding:"max=60"`
	Total         string  `json:"total" binding:"required"`
}

// TotalsDTO carries the caller-computed monetary summary
type TotalsDTO struct {
	Total   string `json:"total" binding:"required"`
	Deposit string `json:"deposit"`
	Balance string `json:"balance"`
}

// RenderResult is the outcome of a render, including the PDF bytes for
// streaming and the storage location when persistence is enabled.
type RenderResult struct {
	DocumentID  string `json:"document_id"`
	Type        string `json:"type"`
	Filename    string `json:"filename"`
	PageCount   int    `json:"page_count"`
	SizeBytes   int64  `json:"size_bytes"`
	StoragePath string `json:"storage_path,omitempty"`
	URL         string `json:"url,omitempty"`

	PDF []byte `json:"-"`
}

// DocumentTypesResponse lists the renderable document types
type DocumentTypesResponse struct {
	Types []string `json:"types"`
}

// toPayload converts the transport request into the domain payload,
// parsing dates and monetary strings.
func (r *RenderRequest) toPayload() (document.Payload, error) {
	docType := document.DocType(r.Type)
	if !docType.IsValid() {
		return document.Payload{}, shared.NewDomainError("INVALID_INPUT", "Invalid document type: "+r.Type)
	}

	documentID := r.DocumentID
	if documentID == "" {
		documentID = uuid.New().String()
	}

	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}

	issuedAt, err := parseDate(r.IssuedAt)
	if err != nil {
		return document.Payload{}, shared.NewDomainError("INVALID_INPUT", "Invalid issued_at date: "+r.IssuedAt)
	}
	dueAt, err := parseOptionalDate(r.DueAt)
	if err != nil {
		return document.Payload{}, shared.NewDomainError("INVALID_INPUT", "Invalid due_at date: "+r.DueAt)
	}
	paidAt, err := parseOptionalDate(r.PaidAt)
	if err != nil {
		return document.Payload{}, shared.NewDomainError("INVALID_INPUT", "Invalid paid_at date: "+r.PaidAt)
	}

	items := make([]document.LineItem, 0, len(r.Items))
	for i, item := range r.Items {
		unitPrice, err := money.ParseCents(item.UnitPrice)
		if err != nil {
			return document.Payload{}, itemAmountError(i, "unit_price", item.UnitPrice)
		}
		total, err := money.ParseCents(item.Total)
		if err != nil {
			return document.Payload{}, itemAmountError(i, "total", item.Total)
		}

		var originalPrice int64
		if item.OriginalPrice != "" {
			originalPrice, err = money.ParseCents(item.OriginalPrice)
			if err != nil {
				return document.Payload{}, itemAmountError(i, "original_price", item.OriginalPrice)
			}
		}

		var discount *document.Discount
		if item.DiscountLabel != "" {
			discount = &document.Discount{Label: item.DiscountLabel}
		}

		items = append(items, document.LineItem{
			Label:              item.Label,
			Description:        item.Description,
			Quantity:           item.Quantity,
			Unit:               item.Unit,
			UnitPriceCents:     unitPrice,
			OriginalPriceCents: originalPrice,
			Discount:           discount,
			TotalCents:         total,
		})
	}

	totals, err := r.Totals.toDomain()
	if err != nil {
		return document.Payload{}, err
	}

	return document.Payload{
		DocumentID:     documentID,
		Number:         r.Number,
		Type:           docType,
		Business:       r.Business.toDomain(),
		Client:         r.Client.toDomain(),
		ProjectTitle:   r.ProjectTitle,
		Description:    r.Description,
		Items:          items,
		Totals:         totals,
		Currency:       currency,
		VATEnabled:     r.VATEnabled,
		VATRatePercent: r.VATRatePercent,
		DepositPercent: r.DepositPercent,
		IssuedAt:       issuedAt,
		DueAt:          dueAt,
		PaidAt:         paidAt,
		Note:           r.Note,
	}, nil
}

func (b BusinessDTO) toDomain() document.BusinessIdentity {
	return document.BusinessIdentity{
		LegalName:    b.LegalName,
		AddressLines: b.AddressLines,
		SIRET:        b.SIRET,
		VATNumber:    b.VATNumber,
		IBAN:         b.IBAN,
		BIC:          b.BIC,
		LogoURL:      b.LogoURL,
		LegalClauses: b.LegalClauses,
	}
}

func (c ClientDTO) toDomain() document.ClientIdentity {
	return document.ClientIdentity{
		Name:         c.Name,
		Company:      c.Company,
		AddressLines: c.AddressLines,
		Email:        c.Email,
		Phone:        c.Phone,
	}
}

func (t TotalsDTO) toDomain() (document.Totals, error) {
	total, err := money.ParseCents(t.Total)
	if err != nil {
		return document.Totals{}, shared.NewDomainError("NOT_A_NUMBER", "Invalid totals.total amount: "+t.Total)
	}

	var deposit, balance int64
	if t.Deposit != "" {
		deposit, err = money.ParseCents(t.Deposit)
		if err != nil {
			return document.Totals{}, shared.NewDomainError("NOT_A_NUMBER", "Invalid totals.deposit amount: "+t.Deposit)
		}
	}
	if t.Balance != "" {
		balance, err = money.ParseCents(t.Balance)
		if err != nil {
			return document.Totals{}, shared.NewDomainError("NOT_A_NUMBER", "Invalid totals.balance amount: "+t.Balance)
		}
	}

	return document.Totals{
		TotalCents:   total,
		DepositCents: deposit,
		BalanceCents: balance,
	}, nil
}

func itemAmountError(index int, field, value string) error {
	return shared.NewDomainError("NOT_A_NUMBER",
		fmt.Sprintf("Invalid items[%d].%s amount: %s", index, field, value))
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
