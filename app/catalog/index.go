package catalog

import (
	"strings"

	"github.com/mytheresa/price-configurator/models"
)

// Index derives the legal option values of every cascade level from an
// immutable set of catalog rows. It is safe for concurrent use.
type Index struct {
	rows []models.CatalogRow
}

// NewIndex copies rows into a new Index.
func NewIndex(rows []models.CatalogRow) *Index {
	cp := make([]models.CatalogRow, len(rows))
	copy(cp, rows)
	return &Index{rows: cp}
}

// Rows returns a copy of the dataset.
func (ix *Index) Rows() []models.CatalogRow {
	cp := make([]models.CatalogRow, len(ix.rows))
	copy(cp, ix.rows)
	return cp
}

// Len returns the number of rows.
func (ix *Index) Len() int { return len(ix.rows) }

// OptionsFor returns the distinct non-empty values of level among the rows
// consistent with sel. Row values are compared and returned trimmed:
//   - group: every row
//   - category: rows of sel.Group
//   - the five sibling levels: rows of sel.Group and sel.Category
//
// Values come back in first-appearance order. An unknown level yields nil.
func (ix *Index) OptionsFor(level models.Level, sel models.Selection) []string {
	var match func(models.CatalogRow) bool
	switch {
	case level == models.LevelGroup:
		match = func(models.CatalogRow) bool { return true }
	case level == models.LevelCategory:
		match = func(r models.CatalogRow) bool { return strings.TrimSpace(r.ProductGroup) == sel.Group }
	case level.IsSibling():
		match = func(r models.CatalogRow) bool {
			return strings.TrimSpace(r.ProductGroup) == sel.Group &&
				strings.TrimSpace(r.ProductCategory) == sel.Category
		}
	default:
		return nil
	}

	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range ix.rows {
		if !match(r) {
			continue
		}
		v := strings.TrimSpace(r.Value(level))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// Contains reports whether value is a legal option of level under sel.
func (ix *Index) Contains(level models.Level, sel models.Selection, value string) bool {
	for _, v := range ix.OptionsFor(level, sel) {
		if v == value {
			return true
		}
	}
	return false
}

// Filters narrows GetFilteredRows. Empty fields match every row.
type Filters struct {
	ProductGroup    string
	ProductCategory string
}

// GetFilteredRows returns one page of the rows matching filters, and the
// total number of matching rows.
func (ix *Index) GetFilteredRows(offset, limit int, filters Filters) ([]models.CatalogRow, int64) {
	matched := []models.CatalogRow{}
	for _, r := range ix.rows {
		if filters.ProductGroup != "" && r.ProductGroup != filters.ProductGroup {
			continue
		}
		if filters.ProductCategory != "" && r.ProductCategory != filters.ProductCategory {
			continue
		}
		matched = append(matched, r)
	}

	total := int64(len(matched))
	start := min(offset, len(matched))
	end := min(offset+limit, len(matched))
	return matched[start:end], total
}

// GetByID returns the row with the given id.
func (ix *Index) GetByID(id string) (models.CatalogRow, bool) {
	for _, r := range ix.rows {
		if r.ID == id {
			return r, true
		}
	}
	return models.CatalogRow{}, false
}
