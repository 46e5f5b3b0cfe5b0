package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/models"
)

// DefaultTimeout bounds a single pricing call.
const DefaultTimeout = 5 * time.Second

// Bridge turns a selection into a pricing request, calls the Service and
// maps its answer to a Result.
type Bridge struct {
	service Service
	timeout time.Duration
	logger  *zap.Logger
}

// NewBridge returns a Bridge over s. A non-positive timeout uses DefaultTimeout.
func NewBridge(s Service, timeout time.Duration, logger *zap.Logger) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{service: s, timeout: timeout, logger: logging.OrNop(logger)}
}

// Calculate prices sel at dims. Whenever the returned Result is NotPriced the
// error says why: ErrNoPriceMatch for an unmatched configuration,
// ErrPricingService when the call failed or timed out.
func (b *Bridge) Calculate(ctx context.Context, sel models.Selection, dims models.Dimensions) (Result, error) {
	req := NewRequest(sel, dims)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.service.Calculate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNoPriceMatch) {
			b.logger.Debug("pricing_no_match",
				zap.String("group", req.ProductGroup),
				zap.String("category", req.ProductCategory),
				zap.String("reason", err.Error()),
			)
			return NotPriced, err
		}
		b.logger.Warn("pricing_failed",
			zap.String("group", req.ProductGroup),
			zap.String("category", req.ProductCategory),
			zap.Error(err),
		)
		return NotPriced, fmt.Errorf("%w: %w", ErrPricingService, err)
	}

	if resp.Row == nil || resp.Calc == nil {
		return NotPriced, ErrNoPriceMatch
	}
	return Result{MatchedRow: resp.Row, Calculation: resp.Calc}.Clone(), nil
}
