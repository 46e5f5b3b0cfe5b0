package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrFormulaNotFound is returned when no formula covers the dimensions.
var ErrFormulaNotFound = errors.New("pricing formula not found")

type PricingFormulasRepository struct {
	db *gorm.DB
}

func NewPricingFormulasRepository(db *gorm.DB) *PricingFormulasRepository {
	return &PricingFormulasRepository{
		db: db,
	}
}

// FindFormula returns the oldest formula of item covering width x height.
func (r *PricingFormulasRepository) FindFormula(ctx context.Context, item string, width, height decimal.Decimal) (*PricingFormula, error) {
	var f PricingFormula
	if err := r.db.WithContext(ctx).
		Where("item_name = ? AND min_width <= ? AND max_width >= ? AND min_height <= ? AND max_height >= ?",
			item, width, width, height, height).
		Order("id ASC").
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormulaNotFound
		}
		return nil, err
	}
	return &f, nil
}

// HasOverlap reports whether another formula of the same item overlaps f.
func (r *PricingFormulasRepository) HasOverlap(ctx context.Context, f *PricingFormula) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&PricingFormula{}).
		Where("item_name = ? AND id <> ? AND min_width <= ? AND max_width >= ? AND min_height <= ? AND max_height >= ?",
			f.ItemName, f.ID, f.MaxWidth, f.MinWidth, f.MaxHeight, f.MinHeight).
		Count(&n).Error
	return n > 0, err
}

func (r *PricingFormulasRepository) CreateFormula(ctx context.Context, f *PricingFormula) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// ItemExists reports whether an item called name exists, active or not.
func (r *PricingFormulasRepository) ItemExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&PricingItem{}).
		Where("item_name = ?", name).
		Count(&n).Error
	return n > 0, err
}

// ItemNameTaken reports whether an item other than excludeID uses name.
func (r *PricingFormulasRepository) ItemNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&PricingItem{}).
		Where("item_name = ? AND id <> ?", name, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *PricingFormulasRepository) CreateItem(ctx context.Context, item *PricingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
