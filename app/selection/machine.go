// Package selection holds the cascading product selection of one configurator
// and keeps its price in step with it.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/models"
)

// ErrInvalidOption is returned when a value is not among the current options
// of its level.
var ErrInvalidOption = errors.New("invalid option")

// OptionSource answers which values a level may take under a selection.
type OptionSource interface {
	OptionsFor(level models.Level, sel models.Selection) []string
	Contains(level models.Level, sel models.Selection, value string) bool
}

// Pricer prices a selection at given dimensions.
type Pricer interface {
	Calculate(ctx context.Context, sel models.Selection, dims models.Dimensions) (pricing.Result, error)
}

// State is a consistent copy of the machine.
type State struct {
	Selection  models.Selection
	Dimensions models.Dimensions
	Result     pricing.Result
	// PriceError is why the last calculation produced no price, if it failed.
	PriceError error
}

// Priced reports whether the state carries a price for its selection.
func (s State) Priced() bool { return s.Result.Priced() }

// Machine owns a selection, its dimensions and the price computed for them.
// Any change discards the current price; Recalculate computes a new one and
// keeps it only if no newer change or calculation happened meanwhile.
type Machine struct {
	mu       sync.Mutex
	options  OptionSource
	pricer   Pricer
	sel      models.Selection
	dims     models.Dimensions
	result   pricing.Result
	priceErr error
	latest   pricing.Latest
}

func NewMachine(options OptionSource, pricer Pricer) *Machine {
	return &Machine{
		options: options,
		pricer:  pricer,
		dims:    models.DefaultDimensions,
	}
}

// SetField sets level to value, clearing the levels that depend on it:
// group clears category and the five siblings, category clears the siblings.
// An empty value unsets the level. A non-empty value must be one of the
// current options.
func (m *Machine) SetField(level models.Level, value string) error {
	value = strings.TrimSpace(value)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.sel
	switch {
	case level == models.LevelGroup:
		next = models.Selection{}
	case level == models.LevelCategory:
		next = models.Selection{Group: m.sel.Group}
	case level.IsSibling():
	default:
		return fmt.Errorf("%w: %q", models.ErrUnknownLevel, level)
	}

	if value != "" && !m.options.Contains(level, next, value) {
		return fmt.Errorf("%w: %q is not a %s option", ErrInvalidOption, value, level)
	}
	next.Set(level, value)

	m.sel = next
	m.invalidate()
	return nil
}

// SetDimensions replaces height, width and quantity.
func (m *Machine) SetDimensions(d models.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dims = d
	m.invalidate()
	return nil
}

// ResetInputs restores the default dimensions.
func (m *Machine) ResetInputs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dims = models.DefaultDimensions
	m.invalidate()
}

// Recalculate prices the current state. The pricer runs without the lock
// held; its answer is stored only if it is still the latest, and applied
// reports whether it was. Without a group and category nothing is priced.
func (m *Machine) Recalculate(ctx context.Context) (applied bool, err error) {
	m.mu.Lock()
	ticket := m.latest.Issue()
	sel, dims := m.sel, m.dims
	if sel.Group == "" || sel.Category == "" {
		m.result, m.priceErr = pricing.NotPriced, nil
		m.mu.Unlock()
		return true, nil
	}
	m.mu.Unlock()

	result, err := m.pricer.Calculate(ctx, sel, dims)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.latest.IsCurrent(ticket) {
		return false, err
	}
	if err != nil || !result.Priced() {
		m.result = pricing.NotPriced
	} else {
		m.result = result.Clone()
	}
	m.priceErr = err
	return true, err
}

// Snapshot returns a copy of the state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Selection:  m.sel,
		Dimensions: m.dims,
		Result:     m.result.Clone(),
		PriceError: m.priceErr,
	}
}

// Options returns the legal values of every level under the current selection.
func (m *Machine) Options() map[models.Level][]string {
	m.mu.Lock()
	sel := m.sel
	m.mu.Unlock()

	out := make(map[models.Level][]string, len(models.Levels))
	for _, l := range models.Levels {
		out[l] = m.options.OptionsFor(l, sel)
	}
	return out
}

// invalidate drops the current price and any calculation in flight. Callers
// hold m.mu.
func (m *Machine) invalidate() {
	m.result = pricing.NotPriced
	m.priceErr = nil
	m.latest.Invalidate()
}
