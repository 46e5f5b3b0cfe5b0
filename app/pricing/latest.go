package pricing

import "sync/atomic"

// Ticket identifies one issued calculation.
type Ticket uint64

// Latest hands out increasing tickets. Only the most recently issued ticket
// is current, so a result that arrives after a newer calculation was issued
// (or after the state was invalidated) is discarded.
type Latest struct{ n atomic.Uint64 }

// Issue returns a new current ticket.
func (l *Latest) Issue() Ticket { return Ticket(l.n.Add(1)) }

// Invalidate makes every ticket issued so far stale.
func (l *Latest) Invalidate() { l.n.Add(1) }

// IsCurrent reports whether t is the most recently issued ticket.
func (l *Latest) IsCurrent(t Ticket) bool { return uint64(t) == l.n.Load() }
