// Package main loads the pricing CSV into the catalog_rows table.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/catalog"
	"github.com/mytheresa/price-configurator/app/config"
	"github.com/mytheresa/price-configurator/app/database"
	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/models"
)

var catalogColumns = []string{
	"id", "position", "product_group", "product_category", "printing_sides",
	"variables", "size", "material", "finish", "tax_rate", "unit_price", "unit",
	"ink_cost", "sheet_cost", "lamination_cost", "or_cost",
}

func main() {
	file := flag.String("file", "pricing_data.csv", "pricing dataset CSV")
	truncate := flag.Bool("truncate", false, "delete existing rows first")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, *file, *truncate, logger); err != nil {
		logger.Error("seed_failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, file string, truncate bool, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rows, err := catalog.FileDataset{Path: file}.LoadRows(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	gdb, err := database.New(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	err = database.Migrate(gdb)
	_ = database.Close(gdb)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := copyRows(ctx, db, rows, truncate); err != nil {
		return err
	}
	logger.Info("seed_complete", zap.String("file", file), zap.Int("rows", len(rows)), zap.Bool("truncated", truncate))
	return nil
}

// copyRows bulk loads rows with COPY in a single transaction.
func copyRows(ctx context.Context, db *sql.DB, rows []models.CatalogRow, truncate bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if truncate {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE catalog_rows"); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("catalog_rows", catalogColumns...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, copyValues(row)...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy %s: %w", row.ID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	return tx.Commit()
}

// copyValues lists the row's values in catalogColumns order.
func copyValues(r models.CatalogRow) []any {
	return []any{
		r.ID, r.Position, r.ProductGroup, r.ProductCategory, r.PrintingSides,
		r.Variables, r.Size, r.Material, r.Finish, r.TaxRate.String(), r.UnitPrice.String(), r.Unit,
		r.InkCost.String(), r.SheetCost.String(), r.LaminationCost.String(), r.OrCost.String(),
	}
}
