package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/models"
)

type MockQuotationStore struct {
	created []*models.Quotation
	err     error
}

func (m *MockQuotationStore) Create(_ context.Context, q *models.Quotation) error {
	if m.err != nil {
		return m.err
	}
	q.Name = fmt.Sprintf("SAL-QTN-%d-%05d", q.TransactionDate.Year(), len(m.created)+1)
	m.created = append(m.created, q)
	return nil
}

func (m *MockQuotationStore) GetByName(_ context.Context, name string) (*models.Quotation, error) {
	for _, q := range m.created {
		if q.Name == name {
			return q, nil
		}
	}
	return nil, models.ErrQuotationNotFound
}

func testItem(unit string, sel models.Selection, dims models.Dimensions, base, total, vat, gross string) quote.Item {
	return quote.Item{
		ID:         "item",
		Selection:  sel,
		Dimensions: dims,
		Row:        models.CatalogRow{ID: "row-1", Unit: unit},
		Calculation: pricing.Breakdown{
			BasePrice:    decimal.RequireFromString(base),
			Total:        decimal.RequireFromString(total),
			VATAmount:    decimal.RequireFromString(vat),
			TotalWithVAT: decimal.RequireFromString(gross),
		},
	}
}

func testSubmission() quote.Submission {
	return quote.Submission{
		Customer: quote.CustomerRecord{
			Name: "  Ada Lovelace ", Company: "Analytical Ltd", Email: "ada@example.com",
			Phone: "0123", Reference: "PO-42",
		},
		Items: []quote.Item{
			testItem("sq/m",
				models.Selection{Category: "Banner", Size: "Custom", Material: "PVC", Finish: "Zero"},
				models.Dimensions{Height: 1000, Width: 500.5, Quantity: 2},
				"12.51", "25.02", "5.00", "30.02"),
			testItem("each",
				models.Selection{Category: "Flyer", Size: "A5"},
				models.Dimensions{Quantity: 100},
				"0.10", "10.00", "2.00", "12.00"),
		},
	}
}

func TestBuildQuotation(t *testing.T) {
	at := time.Date(2026, 5, 17, 15, 4, 5, 0, time.UTC)

	q, err := BuildQuotation(testSubmission(), "GBP", at)
	require.NoError(t, err)

	assert.Equal(t, "Draft", q.Status)
	assert.Equal(t, "Lead", q.QuotationTo)
	assert.Equal(t, "Ada Lovelace", q.PartyName)
	assert.Equal(t, "Ada Lovelace", q.CustomerName)
	assert.Equal(t, "Analytical Ltd", q.Company)
	assert.Equal(t, "ada@example.com", q.ContactEmail)
	assert.Equal(t, "0123", q.ContactMobile)
	assert.Equal(t, "PO-42", q.Notes)
	assert.Equal(t, "GBP", q.Currency)
	assert.Equal(t, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC), q.TransactionDate)
	assert.Equal(t, "35.02", q.NetTotal.StringFixed(2))
	assert.Equal(t, "7.00", q.TotalTaxes.StringFixed(2))
	assert.Equal(t, "42.02", q.GrandTotal.StringFixed(2))

	require.Len(t, q.Lines, 2)
	first := q.Lines[0]
	assert.Equal(t, "Service", first.ItemCode)
	assert.Equal(t, "Banner, Custom, PVC (1000mm x 500.5mm)", first.ItemName)
	assert.Equal(t, first.ItemName, first.Description)
	assert.Equal(t, 2, first.Qty)
	assert.Equal(t, "Nos", first.UOM)
	assert.Equal(t, "12.51", first.Rate.StringFixed(2))
	assert.Equal(t, "25.02", first.Amount.StringFixed(2))
	assert.Equal(t, "row-1", first.CatalogRowID)

	assert.Equal(t, "Flyer, A5", q.Lines[1].ItemName)
	assert.Equal(t, 100, q.Lines[1].Qty)
}

func TestBuildQuotationRejects(t *testing.T) {
	sub := testSubmission()
	sub.Customer.Name = "   "
	_, err := BuildQuotation(sub, "GBP", time.Now())
	assert.ErrorIs(t, err, ErrCustomerNameRequired)

	sub = testSubmission()
	sub.Items = nil
	_, err = BuildQuotation(sub, "GBP", time.Now())
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "missing name", err: ErrCustomerNameRequired, want: "Customer name is required."},
		{name: "no items", err: ErrNoItems, want: "At least one item is required."},
		{name: "wrapped", err: fmt.Errorf("submit: %w", ErrNoItems), want: "At least one item is required."},
		{name: "other", err: errors.New("database is down"), want: "database is down"},
		{name: "nil", err: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
	assert.Equal(t, "customer name is required", ErrCustomerNameRequired.Error())
	assert.Equal(t, "at least one item is required", ErrNoItems.Error())
}

func TestLineDescription(t *testing.T) {
	tests := []struct {
		name string
		item quote.Item
		want string
	}{
		{
			name: "summary",
			item: testItem("each", models.Selection{Category: "Flyer", Size: "A5", Finish: "Gloss"}, models.DefaultDimensions, "1", "1", "0", "1"),
			want: "Flyer, A5, Gloss",
		},
		{
			name: "fallback",
			item: testItem("each", models.Selection{Finish: "Zero"}, models.DefaultDimensions, "1", "1", "0", "1"),
			want: "Custom Item",
		},
		{
			name: "fallback priced by area",
			item: testItem("sq/m", models.Selection{}, models.Dimensions{Height: 250, Width: 120.25, Quantity: 1}, "1", "1", "0", "1"),
			want: "Custom Item (250mm x 120.25mm)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineDescription(tt.item))
		})
	}
	assert.Equal(t, "Custom item", quote.Item{}.Description())
}

func TestSubmitQuote(t *testing.T) {
	store := &MockQuotationStore{}
	svc := NewService(store, "GBP", nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	name, err := svc.SubmitQuote(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, "SAL-QTN-2026-00001", name)

	q, err := svc.GetQuotation(context.Background(), name)
	require.NoError(t, err)
	assert.Len(t, q.Lines, 2)

	_, err = svc.GetQuotation(context.Background(), "SAL-QTN-2026-09999")
	assert.ErrorIs(t, err, models.ErrQuotationNotFound)
}

func TestSubmitQuoteStoreFailure(t *testing.T) {
	store := &MockQuotationStore{err: models.ErrDuplicateQuotation}
	svc := NewService(store, "GBP", nil)

	_, err := svc.SubmitQuote(context.Background(), testSubmission())
	assert.ErrorIs(t, err, models.ErrDuplicateQuotation)
}

func TestSubmitThroughQuoteGate(t *testing.T) {
	svc := NewService(&MockQuotationStore{err: errors.New("database is down")}, "GBP", nil)

	l := quote.NewLedger()
	row := models.CatalogRow{ID: "row-1"}
	calc := pricing.Breakdown{Total: decimal.RequireFromString("1")}
	_, err := l.Commit(models.Selection{Category: "Flyer"}, models.DefaultDimensions, pricing.Result{MatchedRow: &row, Calculation: &calc})
	require.NoError(t, err)
	l.SetCustomer(quote.CustomerRecord{Name: "Ada"})

	_, err = quote.Submit(context.Background(), l, svc)
	var svcErr *quote.SubmissionServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create quotation: database is down", svcErr.Message)
	assert.Equal(t, 1, l.Len())
}
