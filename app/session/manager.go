// Package session keeps the configurator sessions: one selection machine and
// one quote ledger each, all sharing the catalog.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mytheresa/price-configurator/app/logging"
	"github.com/mytheresa/price-configurator/app/quote"
	"github.com/mytheresa/price-configurator/app/selection"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

type Session struct {
	ID        string
	CreatedAt time.Time
	Machine   *selection.Machine
	Ledger    *quote.Ledger
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	options  selection.OptionSource
	pricer   selection.Pricer
	ttl      time.Duration
	newID    func() string
	now      func() time.Time
	logger   *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets how long a session may go unused before Sweep drops it.
// Zero keeps sessions until they are deleted.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logging.OrNop(l) }
}

func NewManager(options selection.OptionSource, pricer selection.Pricer, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		options:  options,
		pricer:   pricer,
		ttl:      DefaultTTL,
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts an empty session.
func (m *Manager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:        m.newID(),
		CreatedAt: now,
		Machine:   selection.NewMachine(m.options, m.pricer),
		Ledger:    quote.NewLedger(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s, lastSeen: now}
	return s
}

// Get returns a session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || m.expired(e) {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = m.now()
	return e.session, nil
}

// Delete drops a session and reports whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops the sessions unused for longer than the TTL and returns how
// many it dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("sessions_expired", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}

func (m *Manager) expired(e *entry) bool {
	return m.ttl > 0 && m.now().Sub(e.lastSeen) > m.ttl
}
