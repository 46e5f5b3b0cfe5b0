package pricing

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/app/logging"
)

type PricingHandler struct {
	service Service
	logger  *zap.Logger
}

func NewPricingHandler(s Service, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: s,
		logger:  logging.OrNop(logger),
	}
}

// HandleCalculate handles POST /pricing/calculate
func (h *PricingHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		var noMatch *NoMatchError
		switch {
		case errors.As(err, &noMatch):
			api.ErrorResponse(w, http.StatusUnprocessableEntity, noMatch.Reason)
		case errors.Is(err, ErrNoPriceMatch):
			api.ErrorResponse(w, http.StatusUnprocessableEntity, reasonNotFound)
		default:
			h.logger.Error("pricing_calculate_failed", zap.Error(err))
			api.ErrorResponse(w, http.StatusBadGateway, "pricing failed")
		}
		return
	}
	api.OKResponse(w, resp)
}
