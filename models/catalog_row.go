package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogRow is one priceable configuration template of the pricing dataset.
// Rows are loaded once and never mutated afterwards.
type CatalogRow struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	Position        int             `gorm:"not null;index" json:"-"`
	ProductGroup    string          `gorm:"not null;index:idx_catalog_rows_group_category" json:"productGroup"`
	ProductCategory string          `gorm:"not null;index:idx_catalog_rows_group_category" json:"productCategory"`
	PrintingSides   string          `json:"printingSides"`
	Variables       string          `json:"variables"`
	Size            string          `json:"size"`
	Material        string          `json:"material"`
	Finish          string          `json:"finish"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"taxRate"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Unit            string          `json:"unit"`
	InkCost         decimal.Decimal `gorm:"type:decimal(12,2)" json:"inkCost"`
	SheetCost       decimal.Decimal `gorm:"type:decimal(12,2)" json:"sheetCost"`
	LaminationCost  decimal.Decimal `gorm:"type:decimal(12,2)" json:"laminationCost"`
	OrCost          decimal.Decimal `gorm:"type:decimal(12,2)" json:"orCost"`
}

func (r *CatalogRow) TableName() string {
	return "catalog_rows"
}

// UnitSquareMetre is the unit of rows priced by area.
const UnitSquareMetre = "sq/m"

// PricedByArea reports whether the row price is per square metre.
func (r CatalogRow) PricedByArea() bool {
	return strings.EqualFold(r.Unit, UnitSquareMetre)
}
