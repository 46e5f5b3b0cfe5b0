package models

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingFormulasRepositoryFindFormula(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingFormulasRepository(db)
	columns := []string{"id", "item_name", "min_width", "max_width", "min_height", "max_height", "price_per_sqft", "fixed_cost"}

	mock.ExpectQuery(`SELECT \* FROM "pricing_formulas" WHERE item_name = \$1 AND min_width <= \$2`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Banner", "1", "10", "1", "10", "2.5", "4"))
	f, err := repo.FindFormula(context.Background(), "Banner", decimal.NewFromInt(2), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint(3), f.ID)
	assert.True(t, f.PricePerSqft.Equal(decimal.RequireFromString("2.5")))

	mock.ExpectQuery(`SELECT \* FROM "pricing_formulas"`).WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.FindFormula(context.Background(), "Banner", decimal.NewFromInt(50), decimal.NewFromInt(3))
	assert.ErrorIs(t, err, ErrFormulaNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingFormulasRepositoryCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingFormulasRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pricing_formulas" WHERE item_name = \$1 AND id <> \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	overlap, err := repo.HasOverlap(context.Background(), &PricingFormula{ItemName: "Banner"})
	require.NoError(t, err)
	assert.True(t, overlap)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pricing_items" WHERE item_name = \$1 AND id <> \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	taken, err := repo.ItemNameTaken(context.Background(), "Banner", 0)
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingFormulaRanges(t *testing.T) {
	d := decimal.RequireFromString
	f := PricingFormula{MinWidth: d("1"), MaxWidth: d("10"), MinHeight: d("1"), MaxHeight: d("5")}

	assert.True(t, f.Covers(d("1"), d("5")), "bounds are inclusive")
	assert.True(t, f.Covers(d("5.5"), d("2")))
	assert.False(t, f.Covers(d("10.01"), d("2")))
	assert.False(t, f.Covers(d("2"), d("0.5")))

	testCases := []struct {
		name     string
		other    PricingFormula
		expected bool
	}{
		{name: "inside", other: PricingFormula{MinWidth: d("2"), MaxWidth: d("3"), MinHeight: d("2"), MaxHeight: d("3")}, expected: true},
		{name: "touching edge", other: PricingFormula{MinWidth: d("10"), MaxWidth: d("20"), MinHeight: d("1"), MaxHeight: d("5")}, expected: true},
		{name: "width apart", other: PricingFormula{MinWidth: d("10.5"), MaxWidth: d("20"), MinHeight: d("1"), MaxHeight: d("5")}, expected: false},
		{name: "height apart", other: PricingFormula{MinWidth: d("1"), MaxWidth: d("10"), MinHeight: d("6"), MaxHeight: d("9")}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.Overlaps(tc.other))
			assert.Equal(t, tc.expected, tc.other.Overlaps(f))
		})
	}
}
