// Package pricing connects a selection to the pricing computation. The
// Bridge builds canonical requests for a Service and turns responses into
// Results; Engine is the dataset-backed Service and Client reaches a remote one.
package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/price-configurator/models"
)

// ErrNoPriceMatch means the selection and dimensions match no catalog row or
// yield no computable breakdown. It is an expected state, not a failure.
var ErrNoPriceMatch = errors.New("no price match")

// ErrPricingService means the pricing call itself failed.
var ErrPricingService = errors.New("pricing service error")

// NoMatchError carries the reason a request could not be priced. It matches
// ErrNoPriceMatch with errors.Is.
type NoMatchError struct {
	Reason string
}

func (e *NoMatchError) Error() string { return e.Reason }

func (e *NoMatchError) Is(target error) bool { return target == ErrNoPriceMatch }

// Breakdown is the cost of a matched row at given dimensions and quantity.
// Amounts are rounded to two decimals.
type Breakdown struct {
	BasePrice    decimal.Decimal  `json:"basePrice"`
	Total        decimal.Decimal  `json:"total"`
	VATAmount    decimal.Decimal  `json:"vatAmount"`
	TotalWithVAT decimal.Decimal  `json:"totalWithVat"`
	AreaM2       *decimal.Decimal `json:"areaM2"`
}

// Clone returns a deep copy of b.
func (b Breakdown) Clone() Breakdown {
	if b.AreaM2 != nil {
		area := *b.AreaM2
		b.AreaM2 = &area
	}
	return b
}

// Options are the sibling-level choices of a Request.
type Options struct {
	Size      string `json:"size"`
	Material  string `json:"material"`
	Finish    string `json:"finish"`
	Sides     string `json:"sides"`
	Variables string `json:"variables"`
}

// RequestDimensions are the physical sizes of a Request in millimetres.
type RequestDimensions struct {
	HeightMm float64 `json:"heightMm"`
	WidthMm  float64 `json:"widthMm"`
}

// Request is the canonical pricing request.
type Request struct {
	ProductGroup    string            `json:"productGroup"`
	ProductCategory string            `json:"productCategory"`
	Options         Options           `json:"options"`
	Dimensions      RequestDimensions `json:"dimensions"`
	Quantity        int               `json:"quantity"`
}

// NewRequest builds the canonical request for a selection and its inputs.
func NewRequest(sel models.Selection, dims models.Dimensions) Request {
	return Request{
		ProductGroup:    sel.Group,
		ProductCategory: sel.Category,
		Options: Options{
			Size:      sel.Size,
			Material:  sel.Material,
			Finish:    sel.Finish,
			Sides:     sel.Sides,
			Variables: sel.Variables,
		},
		Dimensions: RequestDimensions{
			HeightMm: dims.Height,
			WidthMm:  dims.Width,
		},
		Quantity: dims.Quantity,
	}
}

// Details describes how the unit price was derived.
type Details struct {
	Unit   string           `json:"unit"`
	AreaM2 *decimal.Decimal `json:"areaM2"`
	Rate   decimal.Decimal  `json:"rate"`
}

// Meta identifies the matched row.
type Meta struct {
	ProductID   string `json:"productId"`
	Description string `json:"description"`
}

// Response is what a pricing Service answers. Row and Calc are the parts the
// configurator relies on; the rest is for display.
type Response struct {
	UnitPrice  decimal.Decimal    `json:"unitPrice"`
	NetTotal   decimal.Decimal    `json:"netTotal"`
	VATTotal   decimal.Decimal    `json:"vatTotal"`
	GrossTotal decimal.Decimal    `json:"grossTotal"`
	Currency   string             `json:"currency"`
	Details    *Details           `json:"breakdown,omitempty"`
	Meta       *Meta              `json:"meta,omitempty"`
	Row        *models.CatalogRow `json:"row"`
	Calc       *Breakdown         `json:"calc"`
}

// Service computes the price of a request.
type Service interface {
	Calculate(ctx context.Context, req Request) (Response, error)
}

// Result is the locally usable outcome of a calculation. MatchedRow and
// Calculation are both set or both nil.
type Result struct {
	MatchedRow  *models.CatalogRow `json:"matchedRow"`
	Calculation *Breakdown         `json:"calculation"`
}

// NotPriced is the absent result.
var NotPriced = Result{}

// Priced reports whether the result carries a row and a breakdown.
func (r Result) Priced() bool {
	return r.MatchedRow != nil && r.Calculation != nil
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	if !r.Priced() {
		return NotPriced
	}
	row := *r.MatchedRow
	calc := r.Calculation.Clone()
	return Result{MatchedRow: &row, Calculation: &calc}
}
