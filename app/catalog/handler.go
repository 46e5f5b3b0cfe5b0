package catalog

import (
	"net/http"
	"strconv"

	"github.com/mytheresa/price-configurator/app/api"
	"github.com/mytheresa/price-configurator/models"
)

type Response struct {
	Total int                 `json:"total"`
	Rows  []models.CatalogRow `json:"rows"`
}

type OptionsResponse struct {
	Level  models.Level `json:"level"`
	Values []string     `json:"values"`
}

type RowProvider interface {
	GetFilteredRows(offset, limit int, filters Filters) ([]models.CatalogRow, int64)
	GetByID(id string) (models.CatalogRow, bool)
	OptionsFor(level models.Level, sel models.Selection) []string
}

type CatalogHandler struct {
	rows RowProvider
}

func NewCatalogHandler(p RowProvider) *CatalogHandler {
	return &CatalogHandler{
		rows: p,
	}
}

// HandleGet handles GET /catalog?offset=&limit=&group=&category=
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	filters := Filters{
		ProductGroup:    r.URL.Query().Get("group"),
		ProductCategory: r.URL.Query().Get("category"),
	}

	rows, total := h.rows.GetFilteredRows(offset, limit, filters)
	api.OKResponse(w, Response{
		Total: int(total),
		Rows:  rows,
	})
}

// HandleGetRow handles GET /catalog/{id}
func (h *CatalogHandler) HandleGetRow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	row, ok := h.rows.GetByID(id)
	if !ok {
		api.ErrorResponse(w, http.StatusNotFound, "catalog row not found")
		return
	}
	api.OKResponse(w, row)
}

// HandleGetOptions handles GET /catalog/options?level=&group=&category=
func (h *CatalogHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	level, err := models.ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sel := models.Selection{
		Group:    r.URL.Query().Get("group"),
		Category: r.URL.Query().Get("category"),
	}
	api.OKResponse(w, OptionsResponse{
		Level:  level,
		Values: h.rows.OptionsFor(level, sel),
	})
}
