package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/price-configurator/models"
)

const (
	reasonNotFound        = "Product configuration not found."
	reasonDimensionsFirst = "Height and Width are required for this item."
	reasonQuantity        = "Quantity must be at least 1."
)

var millimetresPerMetre = decimal.NewFromInt(1000)

// RowLister exposes the dataset rows in dataset order.
type RowLister interface {
	Rows() []models.CatalogRow
}

// Engine prices requests against the loaded dataset.
type Engine struct {
	rows     RowLister
	currency string
}

func NewEngine(rows RowLister, currency string) *Engine {
	return &Engine{rows: rows, currency: currency}
}

// Calculate finds the first row matching req and computes its breakdown.
func (e *Engine) Calculate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if req.Quantity < 1 {
		return Response{}, &NoMatchError{Reason: reasonQuantity}
	}

	row, ok := FindRow(e.rows.Rows(), req)
	if !ok {
		return Response{}, &NoMatchError{Reason: reasonNotFound}
	}
	if row.PricedByArea() && (req.Dimensions.HeightMm <= 0 || req.Dimensions.WidthMm <= 0) {
		return Response{}, &NoMatchError{Reason: reasonDimensionsFirst}
	}

	calc := Compute(row, req.Dimensions.HeightMm, req.Dimensions.WidthMm, req.Quantity)
	return Response{
		UnitPrice:  calc.BasePrice,
		NetTotal:   calc.Total,
		VATTotal:   calc.VATAmount,
		GrossTotal: calc.TotalWithVAT,
		Currency:   e.currency,
		Details: &Details{
			Unit:   row.Unit,
			AreaM2: calc.AreaM2,
			Rate:   row.UnitPrice,
		},
		Meta: &Meta{
			ProductID:   row.ID,
			Description: fmt.Sprintf("%s - %s %s", row.ProductCategory, row.Size, row.Material),
		},
		Row:  &row,
		Calc: &calc,
	}, nil
}

// FindRow returns the first row whose group and category equal the request's
// and whose values equal every non-empty option. Values compare trimmed.
func FindRow(rows []models.CatalogRow, req Request) (models.CatalogRow, bool) {
	for _, row := range rows {
		if strings.TrimSpace(row.ProductGroup) != strings.TrimSpace(req.ProductGroup) ||
			strings.TrimSpace(row.ProductCategory) != strings.TrimSpace(req.ProductCategory) {
			continue
		}
		if !optionMatches(req.Options.Size, row.Size) ||
			!optionMatches(req.Options.Material, row.Material) ||
			!optionMatches(req.Options.Finish, row.Finish) ||
			!optionMatches(req.Options.Sides, row.PrintingSides) ||
			!optionMatches(req.Options.Variables, row.Variables) {
			continue
		}
		return row, true
	}
	return models.CatalogRow{}, false
}

func optionMatches(want, have string) bool {
	want = strings.TrimSpace(want)
	return want == "" || want == strings.TrimSpace(have)
}

// Compute prices row at the given millimetre dimensions and quantity. Rows
// priced per square metre multiply the unit price by the area; others use it
// as is.
func Compute(row models.CatalogRow, heightMm, widthMm float64, quantity int) Breakdown {
	base := row.UnitPrice
	var area *decimal.Decimal
	if row.PricedByArea() {
		h := decimal.NewFromFloat(heightMm).Div(millimetresPerMetre)
		w := decimal.NewFromFloat(widthMm).Div(millimetresPerMetre)
		a := h.Mul(w)
		base = a.Mul(row.UnitPrice)
		rounded := a.Round(4)
		area = &rounded
	}

	// Totals come from the unrounded base; rounding is per figure.
	total := base.Mul(decimal.NewFromInt(int64(quantity)))
	vat := total.Mul(row.TaxRate)
	gross := total.Add(vat)
	return Breakdown{
		BasePrice:    base.Round(2),
		Total:        total.Round(2),
		VATAmount:    vat.Round(2),
		TotalWithVAT: gross.Round(2),
		AreaM2:       area,
	}
}
