// Package quote keeps the priced items of a configurator session and gates
// their submission to the order system.
package quote

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mytheresa/price-configurator/app/pricing"
	"github.com/mytheresa/price-configurator/models"
)

// ErrNotPriced is returned by Commit when the pricing result is absent.
var ErrNotPriced = errors.New("not ready: configuration is not priced")

const (
	noDescriptionValue = "Zero"
	customItem         = "Custom item"
)

// IDGenerator returns a fresh unique item identifier.
type IDGenerator func() string

// UUIDGenerator returns random UUIDs.
func UUIDGenerator() string { return uuid.NewString() }

// Item is a committed, priced configuration. Items are never modified.
type Item struct {
	ID          string            `json:"id"`
	Selection   models.Selection  `json:"selection"`
	Dimensions  models.Dimensions `json:"dimensions"`
	Row         models.CatalogRow `json:"row"`
	Calculation pricing.Breakdown `json:"calculation"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Summary joins category, size, material and finish with ", ", skipping
// empty values and "Zero". It is empty when nothing is left.
func (i Item) Summary() string {
	var parts []string
	for _, p := range []string{i.Selection.Category, i.Selection.Size, i.Selection.Material, i.Selection.Finish} {
		if p == "" || p == noDescriptionValue {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// Description is the Summary, or "Custom item" when it is empty.
func (i Item) Description() string {
	if s := i.Summary(); s != "" {
		return s
	}
	return customItem
}

func (i Item) clone() Item {
	i.Calculation = i.Calculation.Clone()
	return i
}

// CustomerRecord identifies who the quote is for.
type CustomerRecord struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Reference string `json:"reference"`
}

// Totals are the sums over the current items.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	VATTotal   decimal.Decimal `json:"vatTotal"`
	GrossTotal decimal.Decimal `json:"grossTotal"`
	Count      int             `json:"count"`
}

// Ledger is the ordered list of items of one session plus its customer.
type Ledger struct {
	mu       sync.RWMutex
	items    []Item
	customer CustomerRecord
	newID    IDGenerator
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator replaces the UUID item identifiers.
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) { l.newID = g }
}

// WithClock replaces time.Now for item timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{newID: UUIDGenerator, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Commit appends a new item for a priced configuration. It returns
// ErrNotPriced and leaves the ledger alone when result is absent.
func (l *Ledger) Commit(sel models.Selection, dims models.Dimensions, result pricing.Result) (Item, error) {
	if !result.Priced() {
		return Item{}, ErrNotPriced
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	item := Item{
		ID:          l.newID(),
		Selection:   sel,
		Dimensions:  dims,
		Row:         *result.MatchedRow,
		Calculation: result.Calculation.Clone(),
		CreatedAt:   l.now(),
	}
	l.items = append(l.items, item)
	return item.clone(), nil
}

// Remove deletes the item with id and reports whether it existed.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the items in commit order.
func (l *Ledger) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item, len(l.items))
	for i, item := range l.items {
		out[i] = item.clone()
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Totals sums total, VAT and gross over the current items.
func (l *Ledger) Totals() Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t := Totals{Subtotal: decimal.Zero, VATTotal: decimal.Zero, GrossTotal: decimal.Zero, Count: len(l.items)}
	for _, item := range l.items {
		t.Subtotal = t.Subtotal.Add(item.Calculation.Total)
		t.VATTotal = t.VATTotal.Add(item.Calculation.VATAmount)
		t.GrossTotal = t.GrossTotal.Add(item.Calculation.TotalWithVAT)
	}
	return t
}

func (l *Ledger) Customer() CustomerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.customer
}

func (l *Ledger) SetCustomer(c CustomerRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.customer = c
}

// Reset empties the items and the customer.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.customer = CustomerRecord{}
}

// snapshot returns the customer and items under one lock.
func (l *Ledger) snapshot() (CustomerRecord, []Item) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]Item, len(l.items))
	for i, item := range l.items {
		items[i] = item.clone()
	}
	return l.customer, items
}
