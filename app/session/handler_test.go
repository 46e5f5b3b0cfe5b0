package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/price-configurator/app/catalog"
	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/models"
)

func newRow(id, category, size, unit, price string) models.CatalogRow {
	return models.CatalogRow{
		ID: id, ProductGroup: "Signs", ProductCategory: category, Size: size,
		TaxRate: decimal.RequireFromString("0.2"), UnitPrice: decimal.RequireFromString(price), Unit: unit,
	}
}

func testIndex() *catalog.Index {
	return catalog.NewIndex([]models.CatalogRow{
		newRow("row-1", "Banner", "A1", "each", "100"),
		newRow("row-2", "Banner", "A2", "each", "50"),
		newRow("row-3", "Vinyl", "Custom", "sq/m", "40"),
	})
}

type MockOrderSystem struct {
	id          string
	err         error
	submissions []quote.Submission
}

func (m *MockOrderSystem) SubmitQuote(_ context.Context, s quote.Submission) (string, error) {
	m.submissions = append(m.submissions, s)
	return m.id, m.err
}

func newTestServer(orders quote.OrderSystem) http.Handler {
	ix := testIndex()
	bridge := pricing.NewBridge(pricing.NewEngine(ix, "GBP"), time.Second, nil)
	h := NewSessionsHandler(NewManager(ix, bridge), orders, "£", nil)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) View {
	t.Helper()
	var v View
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeView(t, w).ID
}

func selectField(t *testing.T, h http.Handler, id string, level models.Level, value string) View {
	t.Helper()
	w := do(t, h, http.MethodPut, "/sessions/"+id+"/selection/"+string(level), FieldRequest{Value: value})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeView(t, w)
}

func TestSessionFlow(t *testing.T) {
	orders := &MockOrderSystem{id: "SAL-QTN-2026-00001"}
	h := newTestServer(orders)

	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	view := decodeView(t, w)
	id := view.ID
	assert.NotEmpty(t, id)
	assert.False(t, view.Priced)
	assert.Equal(t, "Configure to see price", view.Estimate)
	assert.Equal(t, []string{"Signs"}, view.Options[models.LevelGroup])
	assert.Equal(t, models.DefaultDimensions, view.Dimensions)

	view = selectField(t, h, id, models.LevelGroup, "Signs")
	assert.Equal(t, []string{"Banner", "Vinyl"}, view.Options[models.LevelCategory])
	assert.False(t, view.Priced)

	view = selectField(t, h, id, models.LevelCategory, "Banner")
	assert.Equal(t, []string{"A1", "A2"}, view.Options[models.LevelSize])
	assert.True(t, view.Priced)
	assert.Equal(t, "£120.00 (incl VAT)", view.Estimate)

	view = selectField(t, h, id, models.LevelSize, "A2")
	require.True(t, view.Priced)
	assert.Equal(t, "row-2", view.Result.MatchedRow.ID)
	assert.Equal(t, "£60.00 (incl VAT)", view.Estimate)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var first ItemView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&first))
	assert.Equal(t, "Banner, A2", first.Description)
	assert.Equal(t, "£50.00", first.Amount)

	w = do(t, h, http.MethodPut, "/sessions/"+id+"/dimensions", models.Dimensions{Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "£120.00 (incl VAT)", decodeView(t, w).Estimate)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var totals TotalsView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&totals))
	assert.Equal(t, 2, totals.Count)
	assert.Equal(t, "£150.00", totals.SubtotalText)
	assert.Equal(t, "£30.00", totals.VATText)
	assert.Equal(t, "£180.00", totals.GrossText)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "missing customer name", errorBody(t, w))
	assert.Empty(t, orders.submissions)

	w = do(t, h, http.MethodPut, "/sessions/"+id+"/customer", quote.CustomerRecord{Name: "Ada", Reference: "PO-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", decodeView(t, w).Customer.Name)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var submitted SubmitResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&submitted))
	assert.Equal(t, "SAL-QTN-2026-00001", submitted.Quotation)
	require.Len(t, orders.submissions, 1)
	assert.Len(t, orders.submissions[0].Items, 2)

	w = do(t, h, http.MethodDelete, "/sessions/"+id+"/items/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodDelete, "/sessions/"+id+"/items/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	require.Len(t, view.Items, 1)
	assert.NotEqual(t, first.ID, view.Items[0].ID)
	assert.Equal(t, "£100.00", view.Totals.SubtotalText)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Empty(t, view.Items)
	assert.Equal(t, quote.CustomerRecord{}, view.Customer)
	assert.Equal(t, models.DefaultDimensions, view.Dimensions)
	assert.Equal(t, "A2", view.Selection.Size)
	assert.Equal(t, "£60.00 (incl VAT)", view.Estimate)
	assert.Equal(t, "£0.00", view.Totals.GrossText)

	w = do(t, h, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionErrors(t *testing.T) {
	h := newTestServer(&MockOrderSystem{})
	id := createSession(t, h)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name: "unknown session", method: http.MethodGet, path: "/sessions/nope",
			wantStatus: http.StatusNotFound, wantError: "session not found",
		},
		{
			name: "unknown level", method: http.MethodPut, path: "/sessions/" + id + "/selection/colour",
			body: FieldRequest{Value: "Red"}, wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid option", method: http.MethodPut, path: "/sessions/" + id + "/selection/group",
			body: FieldRequest{Value: "Textiles"}, wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid dimensions", method: http.MethodPut, path: "/sessions/" + id + "/dimensions",
			body: models.Dimensions{Height: -5, Quantity: 1}, wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "commit without price", method: http.MethodPost, path: "/sessions/" + id + "/items",
			wantStatus: http.StatusConflict, wantError: "not ready",
		},
		{
			name: "submit empty quote", method: http.MethodPost, path: "/sessions/" + id + "/submit",
			wantStatus: http.StatusUnprocessableEntity, wantError: "empty quote",
		},
		{
			name: "delete unknown session", method: http.MethodDelete, path: "/sessions/nope",
			wantStatus: http.StatusNotFound, wantError: "session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, w))
			}
		})
	}
}

func TestSessionAreaPricedNeedsDimensions(t *testing.T) {
	h := newTestServer(&MockOrderSystem{})
	id := createSession(t, h)

	selectField(t, h, id, models.LevelGroup, "Signs")
	view := selectField(t, h, id, models.LevelCategory, "Vinyl")
	assert.False(t, view.Priced)
	assert.Equal(t, "Configure to see price", view.Estimate)

	w := do(t, h, http.MethodPut, "/sessions/"+id+"/dimensions", models.Dimensions{Height: 1000, Width: 2000, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	require.True(t, view.Priced)
	assert.Equal(t, "£96.00 (incl VAT)", view.Estimate)

	// changing group clears the price and the siblings
	view = selectField(t, h, id, models.LevelGroup, "Signs")
	assert.False(t, view.Priced)
	assert.Equal(t, models.Selection{Group: "Signs"}, view.Selection)
}

func TestSessionSubmitServiceError(t *testing.T) {
	orders := &MockOrderSystem{err: errors.New("Company is mandatory")}
	h := newTestServer(orders)
	id := createSession(t, h)

	selectField(t, h, id, models.LevelGroup, "Signs")
	selectField(t, h, id, models.LevelCategory, "Banner")
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions/"+id+"/items", nil).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/sessions/"+id+"/customer", quote.CustomerRecord{Name: "Ada"}).Code)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Company is mandatory", errorBody(t, w))

	w = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	view := decodeView(t, w)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, "Ada", view.Customer.Name)
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, "Configure to see price", Estimate("£", pricing.NotPriced))

	row := models.CatalogRow{ID: "row-1"}
	calc := pricing.Breakdown{TotalWithVAT: decimal.RequireFromString("1234.5")}
	assert.Equal(t, "£1234.50 (incl VAT)", Estimate("£", pricing.Result{MatchedRow: &row, Calculation: &calc}))
}
