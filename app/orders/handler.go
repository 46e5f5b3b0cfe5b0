package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/models"
)

type QuotationResponse struct {
	Quotation string `json:"quotation"`
}

type QuotationProvider interface {
	SubmitQuote(ctx context.Context, sub quote.Submission) (string, error)
	GetQuotation(ctx context.Context, name string) (*models.Quotation, error)
}

type QuotationsHandler struct {
	quotations QuotationProvider
}

func NewQuotationsHandler(p QuotationProvider) *QuotationsHandler {
	return &QuotationsHandler{
		quotations: p,
	}
}

// HandleCreate handles POST /quotations
func (h *QuotationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var sub quote.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := h.quotations.SubmitQuote(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNameRequired), errors.Is(err, ErrNoItems):
			api.ErrorResponse(w, http.StatusUnprocessableEntity, Message(err))
		default:
			api.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	api.JSONResponse(w, http.StatusCreated, QuotationResponse{Quotation: name})
}

// HandleGet handles GET /quotations/{name}
func (h *QuotationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotations.GetQuotation(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, models.ErrQuotationNotFound) {
			api.ErrorResponse(w, http.StatusNotFound, "quotation not found")
			return
		}
		api.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.OKResponse(w, q)
}
