// Package router wires the HTTP handlers onto one mux.
package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/app/catalog"
	"github.com/mytheresa/price-configurator/app/formulas"
	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/app/orders"
	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/session"
)

type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Pricing    *pricing.PricingHandler
	Formulas   *formulas.FormulasHandler
	Quotations *orders.QuotationsHandler
	Sessions   *session.SessionsHandler
}

// New registers every route and wraps the mux with request ids and access logs.
func New(h Handlers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		api.OKResponse(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /catalog", h.Catalog.HandleGet)
	mux.HandleFunc("GET /catalog/options", h.Catalog.HandleGetOptions)
	mux.HandleFunc("GET /catalog/{id}", h.Catalog.HandleGetRow)

	mux.HandleFunc("POST /pricing/calculate", h.Pricing.HandleCalculate)

	mux.HandleFunc("POST /formulas/calculate", h.Formulas.HandleCalculate)
	mux.HandleFunc("POST /formulas", h.Formulas.HandleCreateFormula)
	mux.HandleFunc("POST /pricing-items", h.Formulas.HandleCreateItem)

	mux.HandleFunc("POST /quotations", h.Quotations.HandleCreate)
	mux.HandleFunc("GET /quotations/{name}", h.Quotations.HandleGet)

	h.Sessions.Register(mux)

	return api.WithRequestID(api.WithLogging(logging.OrNop(logger), mux))
}
