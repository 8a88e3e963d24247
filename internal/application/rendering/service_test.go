package rendering

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/render"
	"github.com/facturio/backend/internal/infrastructure/storage"
)

func validRequest() RenderRequest {
	return RenderRequest{
		Type:   "QUOTE",
		Number: "2026-0042",
		Business: BusinessDTO{
			LegalName:    "Atelier Numérique SARL",
			AddressLines: []string{"12 rue des Lilas", "75011 Paris"},
			SIRET:        "123 456 789 00012",
		},
		Client: ClientDTO{
			Name:    "Jean Dupont",
			Company: "Boulangerie Dupont",
		},
		Items: []LineItemDTO{
			{Label: "Conception graphique", Quantity: 3, Unit: "jour", UnitPrice: "450,00", Total: "1 350,00"},
			{Label: "Développement", Quantity: 8, Unit: "jour", UnitPrice: "500", Total: "4 000"},
		},
		Totals:         TotalsDTO{Total: "5 350,00", Deposit: "1 605,00", Balance: "3 745,00"},
		VATEnabled:     true,
		VATRatePercent: 20,
		DepositPercent: 30,
		IssuedAt:       "2026-03-10",
		DueAt:          "2026-04-10",
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) *RenderService {
	t.Helper()
	return NewRenderService(render.DefaultRegistry(), storage.NopStorage{}, nil, opts...)
}

func TestRenderService_Render(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Render(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
	assert.Equal(t, "QUOTE", result.Type)
	assert.Equal(t, "devis-2026-0042.pdf", result.Filename)
	assert.GreaterOrEqual(t, result.PageCount, 1)
	assert.Equal(t, int64(len(result.PDF)), result.SizeBytes)
	assert.NotEmpty(t, result.DocumentID)
	assert.Empty(t, result.StoragePath)
}

func TestRenderService_RenderInvoice(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.Type = "INVOICE"
	req.PaidAt = "2026-04-02"

	result, err := svc.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "facture-2026-0042.pdf", result.Filename)
}

func TestRenderService_InvalidAmount(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.Items[0].UnitPrice = "abc"

	_, err := svc.Render(context.Background(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_A_NUMBER", domainErr.Code)
	assert.Contains(t, domainErr.Message, "items[0].unit_price")
}

func TestRenderService_InvalidDate(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.IssuedAt = "10/03/2026"

	_, err := svc.Render(context.Background(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestRenderService_UnknownType(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.Type = "RECEIPT"

	_, err := svc.Render(context.Background(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestRenderService_Persistence(t *testing.T) {
	fsStorage, err := storage.NewFileSystemStorage(t.TempDir(), "http://localhost/docs")
	require.NoError(t, err)

	svc := NewRenderService(render.DefaultRegistry(), fsStorage, nil, WithPersistence(true))

	result, err := svc.Render(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.StoragePath)
	assert.Contains(t, result.URL, "http://localhost/docs/")

	stored, err := svc.GetDocument(context.Background(), result.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, result.PDF, stored)
}

func TestRenderService_LogoFetchFailureDegrades(t *testing.T) {
	// fetcher pointed at nothing; the logo URL is unreachable
	fetcher := cache.NewLogoFetcher(cache.NewInMemoryAssetCache(4), 1024, time.Minute, nil)
	svc := newTestService(t, WithLogoFetcher(fetcher))

	req := validRequest()
	req.Business.LogoURL = "http://127.0.0.1:1/logo.png"

	result, err := svc.Render(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(result.PDF), "%PDF"))
}

func TestRenderService_MaxPagesOption(t *testing.T) {
	svc := newTestService(t, WithMaxPages(1))

	req := validRequest()
	req.Business.LegalClauses = "Conditions générales de vente."

	// the legal clause block needs a second page, which MaxPages(1) forbids
	_, err := svc.Render(context.Background(), req)
	require.Error(t, err)

	var overflow *render.LayoutOverflowError
	assert.ErrorAs(t, err, &overflow)
}

func TestRenderService_DocumentTypes(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, []string{"INVOICE", "QUOTE"}, svc.DocumentTypes().Types)
}

func TestDocumentFilename(t *testing.T) {
	tests := []struct {
		number   string
		expected string
	}{
		{"2026-0042", "devis-2026-0042.pdf"},
		{"D/2026 0042", "devis-D-2026-0042.pdf"},
		{"", "devis.pdf"},
		{"///", "devis.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, documentFilename("QUOTE", tt.number))
	}
}
