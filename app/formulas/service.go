// Package formulas prices items from per-item dimension formulas, the
// alternative to the catalog dataset for products sold by width and height.
package formulas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/models"
)

var (
	ErrItemRequired     = errors.New("item is required")
	ErrWidthRequired    = errors.New("width must be greater than zero")
	ErrHeightRequired   = errors.New("height must be greater than zero")
	ErrNoFormula        = errors.New("no pricing formula for dimensions")
	ErrRangeNotPositive = errors.New("formula range must be greater than zero")
	ErrWidthRange       = errors.New("min width exceeds max width")
	ErrHeightRange      = errors.New("min height exceeds max height")
	ErrOverlap          = errors.New("overlapping formula range")
	ErrUnknownItem      = errors.New("unknown pricing item")
	ErrDuplicateItem    = errors.New("item name must be unique")
)

var messages = map[error]string{
	ErrItemRequired:     "Item is required.",
	ErrWidthRequired:    "Width must be greater than zero.",
	ErrHeightRequired:   "Height must be greater than zero.",
	ErrNoFormula:        "No pricing formula found for these dimensions.",
	ErrRangeNotPositive: "Min/Max width and height must be greater than zero.",
	ErrWidthRange:       "Min Width cannot exceed Max Width.",
	ErrHeightRange:      "Min Height cannot exceed Max Height.",
	ErrOverlap:          "An overlapping formula range already exists for this item.",
	ErrUnknownItem:      "Pricing item not found.",
	ErrDuplicateItem:    "Item Name must be unique.",
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Store persists items and formulas.
type Store interface {
	FindFormula(ctx context.Context, item string, width, height decimal.Decimal) (*models.PricingFormula, error)
	HasOverlap(ctx context.Context, f *models.PricingFormula) (bool, error)
	CreateFormula(ctx context.Context, f *models.PricingFormula) error
	ItemExists(ctx context.Context, name string) (bool, error)
	ItemNameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	CreateItem(ctx context.Context, item *models.PricingItem) error
}

// Quote is a formula price. Breakdown lists the figures one per line.
type Quote struct {
	Item      string          `json:"item"`
	Width     decimal.Decimal `json:"width"`
	Height    decimal.Decimal `json:"height"`
	Area      decimal.Decimal `json:"area"`
	Price     decimal.Decimal `json:"price"`
	FormulaID uint            `json:"formulaId"`
	Breakdown string          `json:"breakdown"`
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.OrNop(logger),
	}
}

// Calculate prices item at width x height with the first formula whose
// ranges cover both.
func (s *Service) Calculate(ctx context.Context, item string, width, height decimal.Decimal) (Quote, error) {
	item = strings.TrimSpace(item)
	switch {
	case item == "":
		return Quote{}, ErrItemRequired
	case !width.IsPositive():
		return Quote{}, ErrWidthRequired
	case !height.IsPositive():
		return Quote{}, ErrHeightRequired
	}

	f, err := s.store.FindFormula(ctx, item, width, height)
	if err != nil {
		if errors.Is(err, models.ErrFormulaNotFound) {
			s.logger.Debug("formula_not_found",
				zap.String("item", item),
				zap.String("width", width.String()),
				zap.String("height", height.String()),
			)
			return Quote{}, ErrNoFormula
		}
		return Quote{}, fmt.Errorf("find formula: %w", err)
	}
	return Apply(*f, item, width, height), nil
}

// Apply computes area * price per sqft + fixed cost.
func Apply(f models.PricingFormula, item string, width, height decimal.Decimal) Quote {
	area := width.Mul(height)
	price := area.Mul(f.PricePerSqft).Add(f.FixedCost)
	lines := []string{
		"Item: " + item,
		fmt.Sprintf("Width x Height: %s x %s", width, height),
		"Area: " + area.String(),
		"Price per sqft: " + f.PricePerSqft.String(),
		"Fixed cost: " + f.FixedCost.String(),
		"Total: " + price.String(),
	}
	return Quote{
		Item:      item,
		Width:     width,
		Height:    height,
		Area:      area,
		Price:     price,
		FormulaID: f.ID,
		Breakdown: strings.Join(lines, "\n"),
	}
}

// ValidateRanges checks the formula bounds are positive and ordered.
func ValidateRanges(f models.PricingFormula) error {
	for _, v := range []decimal.Decimal{f.MinWidth, f.MaxWidth, f.MinHeight, f.MaxHeight} {
		if !v.IsPositive() {
			return ErrRangeNotPositive
		}
	}
	if f.MinWidth.GreaterThan(f.MaxWidth) {
		return ErrWidthRange
	}
	if f.MinHeight.GreaterThan(f.MaxHeight) {
		return ErrHeightRange
	}
	return nil
}

// AddFormula stores f once its item exists, its ranges are valid and they do
// not overlap another formula of the same item.
func (s *Service) AddFormula(ctx context.Context, f *models.PricingFormula) error {
	f.ItemName = strings.TrimSpace(f.ItemName)
	if f.ItemName == "" {
		return ErrItemRequired
	}
	if err := ValidateRanges(*f); err != nil {
		return err
	}

	exists, err := s.store.ItemExists(ctx, f.ItemName)
	if err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if !exists {
		return ErrUnknownItem
	}
	overlap, err := s.store.HasOverlap(ctx, f)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if overlap {
		return ErrOverlap
	}

	if err := s.store.CreateFormula(ctx, f); err != nil {
		return fmt.Errorf("create formula: %w", err)
	}
	s.logger.Info("formula_created", zap.Uint("id", f.ID), zap.String("item", f.ItemName))
	return nil
}

// AddItem stores item. An active item needs a name no other item uses.
func (s *Service) AddItem(ctx context.Context, item *models.PricingItem) error {
	item.ItemName = strings.TrimSpace(item.ItemName)
	if item.ItemName == "" {
		return ErrItemRequired
	}
	if item.Active {
		taken, err := s.store.ItemNameTaken(ctx, item.ItemName, item.ID)
		if err != nil {
			return fmt.Errorf("check item name: %w", err)
		}
		if taken {
			return ErrDuplicateItem
		}
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	s.logger.Info("pricing_item_created", zap.Uint("id", item.ID), zap.String("item", item.ItemName))
	return nil
}
