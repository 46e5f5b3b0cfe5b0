package models

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// ErrDuplicateQuotation is returned when the generated quotation name is
// already taken, typically by a concurrent insert.
var ErrDuplicateQuotation = errors.New("quotation name already exists")

// ErrQuotationNotFound is returned when a quotation is not found.
var ErrQuotationNotFound = errors.New("quotation not found")

type QuotationsRepository struct {
	db *gorm.DB
}

func NewQuotationsRepository(db *gorm.DB) *QuotationsRepository {
	return &QuotationsRepository{db: db}
}

// Create names and stores a quotation with its lines in one transaction.
// The name is SAL-QTN-<year>-<next id>, so two concurrent creates may race
// for the same name; the loser gets ErrDuplicateQuotation. On failure q is
// left as it was passed in.
func (r *QuotationsRepository) Create(ctx context.Context, q *Quotation) error {
	before := *q
	before.Lines = slices.Clone(q.Lines)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Model(&Quotation{}).
			Select("COALESCE(MAX(id), 0) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		q.Name = fmt.Sprintf("SAL-QTN-%d-%05d", q.TransactionDate.Year(), next)
		for i := range q.Lines {
			q.Lines[i].Position = i + 1
		}
		return tx.Create(q).Error
	})
	if err == nil {
		return nil
	}
	*q = before
	if isUniqueViolation(err) {
		return ErrDuplicateQuotation
	}
	return err
}

func (r *QuotationsRepository) GetByName(ctx context.Context, name string) (*Quotation, error) {
	var q Quotation
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("name = ?", name).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
