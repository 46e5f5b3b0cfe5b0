package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingItem is a product priced by dimension formulas rather than by the
// catalog dataset. Only active items need a unique name.
type PricingItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ItemName    string    `gorm:"not null;index" json:"itemName"`
	Description string    `json:"description,omitempty"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (i *PricingItem) TableName() string {
	return "pricing_items"
}

// PricingFormula prices an item within a width and height range (bounds
// inclusive): area * PricePerSqft + FixedCost.
type PricingFormula struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ItemName     string          `gorm:"not null;index" json:"item"`
	MinWidth     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"minWidth"`
	MaxWidth     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"maxWidth"`
	MinHeight    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"minHeight"`
	MaxHeight    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"maxHeight"`
	PricePerSqft decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"pricePerSqft"`
	FixedCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fixedCost"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (f *PricingFormula) TableName() string {
	return "pricing_formulas"
}

// Covers reports whether width x height falls inside the formula ranges.
func (f PricingFormula) Covers(width, height decimal.Decimal) bool {
	return f.MinWidth.LessThanOrEqual(width) && f.MaxWidth.GreaterThanOrEqual(width) &&
		f.MinHeight.LessThanOrEqual(height) && f.MaxHeight.GreaterThanOrEqual(height)
}

// Overlaps reports whether both formulas share at least one width x height
// point. Touching bounds overlap.
func (f PricingFormula) Overlaps(o PricingFormula) bool {
	return o.MinWidth.LessThanOrEqual(f.MaxWidth) && o.MaxWidth.GreaterThanOrEqual(f.MinWidth) &&
		o.MinHeight.LessThanOrEqual(f.MaxHeight) && o.MaxHeight.GreaterThanOrEqual(f.MinHeight)
}
