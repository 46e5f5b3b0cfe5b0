package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/app/selection"
	"github.com/mytheresa/price-configurator/models"
)

type FieldRequest struct {
	Value string `json:"value"`
}

type SubmitResponse struct {
	Quotation string `json:"quotation"`
}

type SessionsHandler struct {
	sessions *Manager
	orders   quote.OrderSystem
	symbol   string
	logger   *zap.Logger
}

func NewSessionsHandler(m *Manager, orders quote.OrderSystem, currencySymbol string, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{
		sessions: m,
		orders:   orders,
		symbol:   currencySymbol,
		logger:   logging.OrNop(logger),
	}
}

// session resolves {id} or writes a 404.
func (h *SessionsHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		api.ErrorResponse(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return s, true
}

// recalculate reprices the session. A missing price is a normal state, and
// a failed call leaves the session unpriced; neither fails the request.
func (h *SessionsHandler) recalculate(r *http.Request, s *Session) {
	applied, err := s.Machine.Recalculate(r.Context())
	if err != nil && !errors.Is(err, pricing.ErrNoPriceMatch) {
		h.logger.Warn("session_pricing_failed",
			zap.String("session_id", s.ID),
			zap.Bool("applied", applied),
			zap.Error(err),
		)
	}
}

// HandleCreate handles POST /sessions
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.logger.Info("session_created", zap.String("session_id", s.ID))
	api.JSONResponse(w, http.StatusCreated, buildView(h.symbol, s))
}

// HandleGet handles GET /sessions/{id}
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	api.OKResponse(w, buildView(h.symbol, s))
}

// HandleDelete handles DELETE /sessions/{id}
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(r.PathValue("id")) {
		api.ErrorResponse(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetField handles PUT /sessions/{id}/selection/{level}
func (h *SessionsHandler) HandleSetField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	level, err := models.ParseLevel(r.PathValue("level"))
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req FieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.Machine.SetField(level, req.Value); err != nil {
		if errors.Is(err, selection.ErrInvalidOption) {
			api.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.recalculate(r, s)
	api.OKResponse(w, buildView(h.symbol, s))
}

// HandleSetDimensions handles PUT /sessions/{id}/dimensions
func (h *SessionsHandler) HandleSetDimensions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var dims models.Dimensions
	if err := json.NewDecoder(r.Body).Decode(&dims); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.Machine.SetDimensions(dims); err != nil {
		api.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.recalculate(r, s)
	api.OKResponse(w, buildView(h.symbol, s))
}

// HandleCommit handles POST /sessions/{id}/items
func (h *SessionsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	state := s.Machine.Snapshot()
	item, err := s.Ledger.Commit(state.Selection, state.Dimensions, state.Result)
	if err != nil {
		api.ErrorResponse(w, http.StatusConflict, "not ready")
		return
	}

	h.logger.Info("quote_item_committed",
		zap.String("session_id", s.ID),
		zap.String("item_id", item.ID),
		zap.String("row_id", item.Row.ID),
	)
	api.JSONResponse(w, http.StatusCreated, newItemView(h.symbol, item))
}

// HandleRemoveItem handles DELETE /sessions/{id}/items/{itemId}
func (h *SessionsHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Ledger.Remove(r.PathValue("itemId"))
	w.WriteHeader(http.StatusNoContent)
}

// HandleTotals handles GET /sessions/{id}/totals
func (h *SessionsHandler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	api.OKResponse(w, newTotalsView(h.symbol, s.Ledger.Totals()))
}

// HandleSetCustomer handles PUT /sessions/{id}/customer
func (h *SessionsHandler) HandleSetCustomer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var c quote.CustomerRecord
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.Ledger.SetCustomer(c)
	api.OKResponse(w, buildView(h.symbol, s))
}

// HandleSubmit handles POST /sessions/{id}/submit
func (h *SessionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := quote.Submit(r.Context(), s.Ledger, h.orders)
	if err != nil {
		var rejected *quote.RejectedError
		var svcErr *quote.SubmissionServiceError
		switch {
		case errors.As(err, &rejected):
			api.ErrorResponse(w, http.StatusUnprocessableEntity, rejected.Error())
		case errors.As(err, &svcErr):
			h.logger.Error("quote_submit_failed", zap.String("session_id", s.ID), zap.Error(err))
			api.ErrorResponse(w, http.StatusBadGateway, svcErr.Message)
		default:
			api.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.Info("quote_submitted", zap.String("session_id", s.ID), zap.String("quotation", id))
	api.JSONResponse(w, http.StatusCreated, SubmitResponse{Quotation: id})
}

// HandleReset handles POST /sessions/{id}/reset
func (h *SessionsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Ledger.Reset()
	s.Machine.ResetInputs()
	h.recalculate(r, s)
	api.OKResponse(w, buildView(h.symbol, s))
}

// Register adds the session routes to mux.
func (h *SessionsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.HandleCreate)
	mux.HandleFunc("GET /sessions/{id}", h.HandleGet)
	mux.HandleFunc("DELETE /sessions/{id}", h.HandleDelete)
	mux.HandleFunc("PUT /sessions/{id}/selection/{level}", h.HandleSetField)
	mux.HandleFunc("PUT /sessions/{id}/dimensions", h.HandleSetDimensions)
	mux.HandleFunc("POST /sessions/{id}/items", h.HandleCommit)
	mux.HandleFunc("DELETE /sessions/{id}/items/{itemId}", h.HandleRemoveItem)
	mux.HandleFunc("GET /sessions/{id}/totals", h.HandleTotals)
	mux.HandleFunc("PUT /sessions/{id}/customer", h.HandleSetCustomer)
	mux.HandleFunc("POST /sessions/{id}/submit", h.HandleSubmit)
	mux.HandleFunc("POST /sessions/{id}/reset", h.HandleReset)
}
