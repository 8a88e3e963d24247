package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/backend/internal/domain/document"
)

func quotePayload() document.Payload {
	issued := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := issued.AddDate(0, 1, 0)
	return document.Payload{
		DocumentID: "5b2c8a4e-7f3d-4f6a-9c1b-2d8e4a6f0c3e",
		Number:     "2026-0042",
		Type:       document.DocTypeQuote,
		Business: document.BusinessIdentity{
			LegalName:    "Atelier Numérique SARL",
			AddressLines: []string{"12 rue des Lilas", "75011 Paris"},
			SIRET:        "123 456 789 00012",
			VATNumber:    "FR12345678901",
			IBAN:         "FR76 3000 6000 0112 3456 7890 189",
			BIC:          "AGRIFRPP",
			LegalClauses: "Devis valable un mois à compter de la date d'émission.",
		},
		Client: document.ClientIdentity{
			Name:         "Jean Dupont",
			Company:      "Boulangerie Dupont",
			AddressLines: []string{"3 place du Marché", "69001 Lyon"},
			Email:        "contact@dupont.fr",
		},
		ProjectTitle: "Refonte du site vitrine",
		Description:  "Refonte complète du site avec prise de commande en ligne.",
		Items: []document.LineItem{
			{Label: "Conception graphique", Quantity: 3, Unit: "jour", UnitPriceCents: 45000, TotalCents: 135000},
			{Label: "Développement", Quantity: 8, Unit: "jour", UnitPriceCents: 50000, TotalCents: 400000},
		},
		Totals: document.Totals{
			TotalCents:   535000,
			DepositCents: 160500,
			BalanceCents: 374500,
		},
		Currency:       "EUR",
		VATEnabled:     true,
		VATRatePercent: 20,
		DepositPercent: 30,
		IssuedAt:       issued,
		DueAt:          &due,
		Note:           "Merci de retourner le devis signé avec la mention bon pour accord.",
	}
}

func invoicePayload() document.Payload {
	p := quotePayload()
	p.Type = document.DocTypeInvoice
	p.Number = "2026-0108"
	p.DepositPercent = 0
	return p
}

func TestQuoteBuilder_Build(t *testing.T) {
	result, err := NewQuoteBuilder(nil).Build(quotePayload(), BuildOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
	assert.Greater(t, len(result.PDF), 500)
	// the legal clause block always opens its own page
	assert.Equal(t, 2, result.PageCount)
}

func TestInvoiceBuilder_Build(t *testing.T) {
	paid := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	payload := invoicePayload()
	payload.PaidAt = &paid

	result, err := NewInvoiceBuilder(nil).Build(payload, BuildOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
	assert.GreaterOrEqual(t, result.PageCount, 1)
}

func TestQuoteBuilder_LongDocumentPaginates(t *testing.T) {
	payload := quotePayload()

	payload.Items = nil
	for i := 0; i < 40; i++ {
		payload.Items = append(payload.Items, document.LineItem{
			Label:       fmt.Sprintf("Prestation %d avec un intitulé volontairement long pour forcer le retour à la ligne", i+1),
			Description: "Inclut la préparation, la réalisation et la recette de la prestation.",
			Quantity:    2,
			Unit:        "jour",
			UnitPriceCents: 45000,
			TotalCents:     90000,
		})
	}

	clause := "Les présentes conditions générales de vente s'appliquent à toutes les prestations conclues entre le prestataire et ses clients professionnels."
	payload.Business.LegalClauses = strings.Repeat(clause+"\n", 12)

	result, err := NewQuoteBuilder(nil).Build(payload, BuildOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.PageCount, 3)
}

func TestInvoiceBuilder_LongItemListPaginates(t *testing.T) {
	payload := invoicePayload()
	payload.Business.LegalClauses = ""

	payload.Items = nil
	for i := 0; i < 40; i++ {
		payload.Items = append(payload.Items, document.LineItem{
			Label:          fmt.Sprintf("Intervention %d", i+1),
			Quantity:       1,
			Unit:           "jour",
			UnitPriceCents: 45000,
			TotalCents:     45000,
		})
	}

	result, err := NewInvoiceBuilder(nil).Build(payload, BuildOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
	assert.Greater(t, len(result.PDF), 500)
	// the item table alone must overflow the first page
	assert.GreaterOrEqual(t, result.PageCount, 2)
}

func TestVATAmountCents(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		rate  float64
		want  int64
	}{
		{"standard rate", 100000, 20, 20000},
		{"reduced rate", 100000, 5.5, 5500},
		{"rounds half up", 333, 20, 67},
		{"rounds down", 1, 20, 0},
		{"beyond float64 integer precision", 922337203685477580, 10, 92233720368547758},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vatAmountCents(tt.total, tt.rate))
		})
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	builder := NewQuoteBuilder(nil)

	first, err := builder.Build(quotePayload(), BuildOptions{})
	require.NoError(t, err)
	second, err := builder.Build(quotePayload(), BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.PDF, second.PDF)
}

func TestBuilder_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document.Payload)
	}{
		{"empty number", func(p *document.Payload) { p.Number = "" }},
		{"no items", func(p *document.Payload) { p.Items = nil }},
		{"zero quantity", func(p *document.Payload) { p.Items[0].Quantity = 0 }},
		{"negative price", func(p *document.Payload) { p.Items[0].UnitPriceCents = -1 }},
		{"missing business name", func(p *document.Payload) { p.Business.LegalName = "" }},
		{"vat rate out of range", func(p *document.Payload) { p.VATRatePercent = 120 }},
	}

	builder := NewQuoteBuilder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := quotePayload()
			tt.mutate(&payload)

			result, err := builder.Build(payload, BuildOptions{})
			require.Error(t, err)
			assert.Nil(t, result)

			var validationErr *document.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestBuilder_MaxPagesOverflow(t *testing.T) {
	payload := quotePayload()
	for i := 0; i < 120; i++ {
		payload.Items = append(payload.Items, document.LineItem{
			Label:      fmt.Sprintf("Prestation %d", i+1),
			Quantity:   1,
			Unit:       "u",
			UnitPriceCents: 10000,
			TotalCents:     10000,
		})
	}

	result, err := NewQuoteBuilder(nil).Build(payload, BuildOptions{MaxPages: 2})
	require.Error(t, err)
	assert.Nil(t, result)

	var overflow *LayoutOverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 2, overflow.MaxPages)
}

func TestBuilder_SanitizesBeforeLayout(t *testing.T) {
	payload := quotePayload()
	payload.ProjectTitle = "Refonte du site 🙏"
	payload.Items[0].Label = "Conception graphique"

	result, err := NewQuoteBuilder(nil).Build(payload, BuildOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
}

func logoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildOptions_Logo(t *testing.T) {
	result, err := NewQuoteBuilder(nil).Build(quotePayload(), BuildOptions{Logo: logoPNG(t)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
}

func TestBuilderRegistry(t *testing.T) {
	registry := DefaultRegistry()

	types := registry.RegisteredTypes()
	assert.Len(t, types, 2)

	_, ok := registry.GetBuilder(document.DocTypeQuote)
	assert.True(t, ok)
	_, ok = registry.GetBuilder(document.DocTypeInvoice)
	assert.True(t, ok)

	result, err := registry.Build(quotePayload(), BuildOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDF)

	payload := quotePayload()
	payload.Type = document.DocType("RECEIPT")
	_, err = registry.Build(payload, BuildOptions{})
	assert.Error(t, err)
}
