package models

import (
	"context"

	"gorm.io/gorm"
)

type CatalogRowsRepository struct {
	db *gorm.DB
}

func NewCatalogRowsRepository(db *gorm.DB) *CatalogRowsRepository {
	return &CatalogRowsRepository{
		db: db,
	}
}

// LoadRows returns the whole dataset in its original order.
func (r *CatalogRowsRepository) LoadRows(ctx context.Context) ([]CatalogRow, error) {
	var rows []CatalogRow
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
