// Package orders is the order-management side: it turns submitted quotes
// into draft quotations and stores them.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/models"
)

const (
	quotationToLead = "Lead"
	statusDraft     = "Draft"
	serviceItemCode = "Service"
	uomNos          = "Nos"
	customLineItem  = "Custom Item"
)

var (
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrNoItems              = errors.New("at least one item is required")
)

// Message returns the text shown to the submitter for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrCustomerNameRequired):
		return "Customer name is required."
	case errors.Is(err, ErrNoItems):
		return "At least one item is required."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// QuotationStore persists quotations.
type QuotationStore interface {
	Create(ctx context.Context, q *models.Quotation) error
	GetByName(ctx context.Context, name string) (*models.Quotation, error)
}

type Service struct {
	store    QuotationStore
	currency string
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(store QuotationStore, currency string, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		currency: currency,
		now:      time.Now,
		logger:   logging.OrNop(logger),
	}
}

// SubmitQuote stores a draft quotation for s and returns its name.
func (s *Service) SubmitQuote(ctx context.Context, sub quote.Submission) (string, error) {
	q, err := BuildQuotation(sub, s.currency, s.now())
	if err != nil {
		return "", err
	}
	if err := s.store.Create(ctx, q); err != nil {
		s.logger.Error("quotation_create_failed",
			zap.String("customer", q.CustomerName),
			zap.Int("lines", len(q.Lines)),
			zap.Error(err),
		)
		return "", fmt.Errorf("create quotation: %w", err)
	}
	s.logger.Info("quotation_created",
		zap.String("name", q.Name),
		zap.String("customer", q.CustomerName),
		zap.String("grand_total", q.GrandTotal.StringFixed(2)),
	)
	return q.Name, nil
}

// GetQuotation returns a stored quotation by name.
func (s *Service) GetQuotation(ctx context.Context, name string) (*models.Quotation, error) {
	return s.store.GetByName(ctx, name)
}

// BuildQuotation maps a submission to an unsaved draft quotation addressed
// to a lead. Each item becomes one "Service" line rated at its base price.
func BuildQuotation(sub quote.Submission, currency string, at time.Time) (*models.Quotation, error) {
	name := strings.TrimSpace(sub.Customer.Name)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}
	if len(sub.Items) == 0 {
		return nil, ErrNoItems
	}

	q := &models.Quotation{
		Status:          statusDraft,
		QuotationTo:     quotationToLead,
		PartyName:       name,
		CustomerName:    name,
		Company:         sub.Customer.Company,
		ContactEmail:    sub.Customer.Email,
		ContactMobile:   sub.Customer.Phone,
		Notes:           sub.Customer.Reference,
		Currency:        currency,
		TransactionDate: time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		NetTotal:        decimal.Zero,
		TotalTaxes:      decimal.Zero,
		GrandTotal:      decimal.Zero,
	}
	for _, item := range sub.Items {
		desc := LineDescription(item)
		q.Lines = append(q.Lines, models.QuotationLine{
			ItemCode:     serviceItemCode,
			ItemName:     desc,
			Description:  desc,
			CatalogRowID: item.Row.ID,
			Qty:          item.Dimensions.Quantity,
			UOM:          uomNos,
			Rate:         item.Calculation.BasePrice,
			Amount:       item.Calculation.Total,
		})
		q.NetTotal = q.NetTotal.Add(item.Calculation.Total)
		q.TotalTaxes = q.TotalTaxes.Add(item.Calculation.VATAmount)
		q.GrandTotal = q.GrandTotal.Add(item.Calculation.TotalWithVAT)
	}
	return q, nil
}

// LineDescription is the item summary ("Custom Item" when empty), followed
// by "(<h>mm x <w>mm)" for rows priced by area.
func LineDescription(item quote.Item) string {
	desc := item.Summary()
	if desc == "" {
		desc = customLineItem
	}
	if item.Row.PricedByArea() {
		desc = fmt.Sprintf("%s (%smm x %smm)", desc, formatMm(item.Dimensions.Height), formatMm(item.Dimensions.Width))
	}
	return desc
}

func formatMm(v float64) string {
	return decimal.NewFromFloat(v).String()
}
