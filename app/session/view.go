package session

import (
	"github.com/mytheresa/price-configurator/app/money"
	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/models"
)

const notPricedEstimate = "Configure to see price"

type ItemView struct {
	quote.Item
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type TotalsView struct {
	quote.Totals
	SubtotalText string `json:"subtotalText"`
	VATText      string `json:"vatText"`
	GrossText    string `json:"grossText"`
}

// View is the state of a session as shown to the operator.
type View struct {
	ID         string                    `json:"id"`
	Selection  models.Selection          `json:"selection"`
	Dimensions models.Dimensions         `json:"dimensions"`
	Options    map[models.Level][]string `json:"options"`
	Priced     bool                      `json:"priced"`
	Result     pricing.Result            `json:"result"`
	Estimate   string                    `json:"estimate"`
	Items      []ItemView                `json:"items"`
	Totals     TotalsView                `json:"totals"`
	Customer   quote.CustomerRecord      `json:"customer"`
}

// Estimate renders the gross price of a result, or a neutral text when there
// is none.
func Estimate(symbol string, r pricing.Result) string {
	if !r.Priced() {
		return notPricedEstimate
	}
	return money.Format(symbol, r.Calculation.TotalWithVAT) + " (incl VAT)"
}

func newItemView(symbol string, item quote.Item) ItemView {
	return ItemView{
		Item:        item,
		Description: item.Description(),
		Amount:      money.Format(symbol, item.Calculation.Total),
	}
}

func newTotalsView(symbol string, t quote.Totals) TotalsView {
	return TotalsView{
		Totals:       t,
		SubtotalText: money.Format(symbol, t.Subtotal),
		VATText:      money.Format(symbol, t.VATTotal),
		GrossText:    money.Format(symbol, t.GrossTotal),
	}
}

func buildView(symbol string, s *Session) View {
	state := s.Machine.Snapshot()
	items := s.Ledger.Items()

	v := View{
		ID:         s.ID,
		Selection:  state.Selection,
		Dimensions: state.Dimensions,
		Options:    s.Machine.Options(),
		Priced:     state.Priced(),
		Result:     state.Result,
		Estimate:   Estimate(symbol, state.Result),
		Items:      make([]ItemView, 0, len(items)),
		Totals:     newTotalsView(symbol, s.Ledger.Totals()),
		Customer:   s.Ledger.Customer(),
	}
	for _, item := range items {
		v.Items = append(v.Items, newItemView(symbol, item))
	}
	return v
}
