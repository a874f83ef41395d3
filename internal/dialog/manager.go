package dialog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/policy"
	"github.com/truongvq/tellerbot/internal/reply"
	"github.com/truongvq/tellerbot/internal/session"
	"github.com/truongvq/tellerbot/internal/validate"
)

// ManagerOptions carries the shared collaborators every controller gets.
type ManagerOptions struct {
	Store     session.Store
	Scheduler Scheduler
	Generator *reply.Generator
	Bank      *bank.Repository
	Policy    *policy.Store
	Validator *validate.Validator
	Delays    Delays
	IdleAfter time.Duration
	Logger    *slog.Logger
}

// Manager hands out one Controller per session key and reaps idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Controller
	opts     ManagerOptions
	now      func() time.Time
}

func NewManager(opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*Controller),
		opts:     opts,
		now:      time.Now,
	}
}

// Get returns the controller for key, creating it on first use.
func (m *Manager) Get(key string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.sessions[key]; ok {
		return c
	}
	c := NewController(Options{
		SessionKey: key,
		Store:      m.opts.Store,
		Scheduler:  m.opts.Scheduler,
		Generator:  m.opts.Generator,
		Bank:       m.opts.Bank,
		Policy:     m.opts.Policy,
		Validator:  m.opts.Validator,
		Delays:     m.opts.Delays,
		Logger:     m.opts.Logger,
	})
	m.sessions[key] = c
	m.opts.Logger.Info("session created", "session", key, "active", len(m.sessions))
	return c
}

// Peek returns the controller for key without creating one.
func (m *Manager) Peek(key string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[key]
	return c, ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SweepIdle drops sessions quiet for longer than IdleAfter and clears their
// transcripts. Returns the number of sessions reaped. A zero IdleAfter
// disables sweeping.
func (m *Manager) SweepIdle(ctx context.Context) int {
	if m.opts.IdleAfter <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleAfter)

	m.mu.Lock()
	var stale []*Controller
	for key, c := range m.sessions {
		if c.LastActive().Before(cutoff) {
			stale = append(stale, c)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, c := range stale {
		if err := m.opts.Store.Clear(ctx, c.SessionKey()); err != nil {
			m.opts.Logger.Warn("transcript clear failed", "session", c.SessionKey(), "error", err)
		}
		m.opts.Logger.Info("idle session reaped", "session", c.SessionKey())
	}
	return len(stale)
}
