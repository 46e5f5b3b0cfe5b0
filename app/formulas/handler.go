package formulas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/models"
)

type CalculateRequest struct {
	Item   string          `json:"item"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

type FormulaProvider interface {
	Calculate(ctx context.Context, item string, width, height decimal.Decimal) (Quote, error)
	AddFormula(ctx context.Context, f *models.PricingFormula) error
	AddItem(ctx context.Context, item *models.PricingItem) error
}

type FormulasHandler struct {
	formulas FormulaProvider
	logger   *zap.Logger
}

func NewFormulasHandler(p FormulaProvider, logger *zap.Logger) *FormulasHandler {
	return &FormulasHandler{
		formulas: p,
		logger:   logging.OrNop(logger),
	}
}

// HandleCalculate handles POST /formulas/calculate
func (h *FormulasHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.formulas.Calculate(r.Context(), req.Item, req.Width, req.Height)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.OKResponse(w, q)
}

// HandleCreateFormula handles POST /formulas
func (h *FormulasHandler) HandleCreateFormula(w http.ResponseWriter, r *http.Request) {
	var f models.PricingFormula
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	f.ID = 0

	if err := h.formulas.AddFormula(r.Context(), &f); err != nil {
		h.writeError(w, err)
		return
	}
	api.JSONResponse(w, http.StatusCreated, f)
}

// HandleCreateItem handles POST /pricing-items
func (h *FormulasHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	item := models.PricingItem{Active: true}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = 0

	if err := h.formulas.AddItem(r.Context(), &item); err != nil {
		h.writeError(w, err)
		return
	}
	api.JSONResponse(w, http.StatusCreated, item)
}

func (h *FormulasHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOverlap), errors.Is(err, ErrDuplicateItem):
		api.ErrorResponse(w, http.StatusConflict, Message(err))
	case errors.Is(err, ErrNoFormula), errors.Is(err, ErrUnknownItem):
		api.ErrorResponse(w, http.StatusNotFound, Message(err))
	case errors.Is(err, ErrItemRequired), errors.Is(err, ErrWidthRequired), errors.Is(err, ErrHeightRequired),
		errors.Is(err, ErrRangeNotPositive), errors.Is(err, ErrWidthRange), errors.Is(err, ErrHeightRange):
		api.ErrorResponse(w, http.StatusUnprocessableEntity, Message(err))
	default:
		h.logger.Error("formula_request_failed", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}
