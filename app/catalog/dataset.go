package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/price-configurator/models"
)

// ErrDatasetLoad is returned when the catalog dataset cannot be loaded. The
// configurator must not be served without a dataset.
var ErrDatasetLoad = errors.New("failed to load pricing data")

// datasetColumns is the minimum number of CSV columns of a usable row.
const datasetColumns = 15

// DatasetSource provides the catalog rows, in dataset order.
type DatasetSource interface {
	LoadRows(ctx context.Context) ([]models.CatalogRow, error)
}

// Load reads the dataset from src and builds an Index.
func Load(ctx context.Context, src DatasetSource) (*Index, error) {
	rows, err := src.LoadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetLoad, err)
	}
	return NewIndex(rows), nil
}

// FileDataset loads the dataset from a CSV file.
type FileDataset struct {
	Path string
}

func (f FileDataset) LoadRows(_ context.Context) ([]models.CatalogRow, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseDataset(file)
}

// ParseDataset reads the pricing CSV. The first line is a header. Columns:
//
//	0 group, 1 category, 2 printed sides, 3 variables, 4 size, 5 material,
//	6 finish, 7 (unused), 8 tax rate "20%", 9 unit price "£1,200.00",
//	10 unit, 11 ink cost, 12 sheet cost, 13 lamination cost, 14 other cost
//
// Text columns are trimmed. Lines with fewer than 15 columns are skipped.
// Row ids are "row-N" where N counts data lines from 1, skipped lines
// included.
func ParseDataset(r io.Reader) ([]models.CatalogRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.CatalogRow{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rows := []models.CatalogRow{}
	for idx := 1; ; idx++ {
		cols, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", idx+1, err)
		}
		if len(cols) < datasetColumns {
			continue
		}
		row, err := parseRow(idx, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", idx+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(idx int, cols []string) (models.CatalogRow, error) {
	text := func(i int) string { return strings.TrimSpace(cols[i]) }
	row := models.CatalogRow{
		ID:              fmt.Sprintf("row-%d", idx),
		Position:        idx,
		ProductGroup:    text(0),
		ProductCategory: text(1),
		PrintingSides:   text(2),
		Variables:       text(3),
		Size:            text(4),
		Material:        text(5),
		Finish:          text(6),
		Unit:            text(10),
	}

	var err error
	if row.TaxRate, err = parsePercentage(cols[8]); err != nil {
		return row, fmt.Errorf("tax rate: %w", err)
	}
	money := []struct {
		dst  *decimal.Decimal
		col  int
		name string
	}{
		{&row.UnitPrice, 9, "unit price"},
		{&row.InkCost, 11, "ink cost"},
		{&row.SheetCost, 12, "sheet cost"},
		{&row.LaminationCost, 13, "lamination cost"},
		{&row.OrCost, 14, "or cost"},
	}
	for _, m := range money {
		if *m.dst, err = parseCurrency(cols[m.col]); err != nil {
			return row, fmt.Errorf("%s: %w", m.name, err)
		}
	}
	return row, nil
}

func parseCurrency(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(strings.NewReplacer("£", "", ",", "").Replace(v))
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

func parsePercentage(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(strings.ReplaceAll(v, "%", ""))
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(decimal.NewFromInt(100)), nil
}
