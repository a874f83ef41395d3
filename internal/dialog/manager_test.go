package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/policy"
	"github.com/truongvq/tellerbot/internal/reply"
	"github.com/truongvq/tellerbot/internal/session"
	"github.com/truongvq/tellerbot/internal/validate"
)

func newTestManager(idle time.Duration) (*Manager, session.Store) {
	repo := bank.Seed()
	pol := policy.NewStore()
	store := session.NewMemoryStore()
	m := NewManager(ManagerOptions{
		Store:     store,
		Scheduler: NewManualScheduler(),
		Generator: reply.NewGenerator(pol, repo),
		Bank:      repo,
		Policy:    pol,
		Validator: validate.New(pol),
		IdleAfter: idle,
	})
	return m, store
}

func TestManagerGetIsStable(t *testing.T) {
	m, _ := newTestManager(0)

	a := m.Get("s1")
	b := m.Get("s1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, m.Get("s2"))
	assert.Equal(t, 2, m.Len())

	_, ok := m.Peek("s1")
	assert.True(t, ok)
	_, ok = m.Peek("s3")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestManagerSweepIdle(t *testing.T) {
	m, store := newTestManager(30 * time.Minute)
	ctx := context.Background()

	c := m.Get("stale")
	m.Get("fresh")
	require.Equal(t, 2, m.Len())

	// Nothing is old enough yet.
	assert.Equal(t, 0, m.SweepIdle(ctx))

	// Jump the sweep clock past the idle window; both sessions would qualify,
	// so move one's activity inside the new window.
	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	fresh := m.Get("fresh")
	fresh.mu.Lock()
	fresh.lastActive = time.Now().Add(time.Hour)
	fresh.mu.Unlock()

	reaped := m.SweepIdle(ctx)
	assert.Equal(t, 1, reaped)
	assert.Equal(t, 1, m.Len())
	_, ok := m.Peek("stale")
	assert.False(t, ok)
	_, ok = m.Peek("fresh")
	assert.True(t, ok)

	// The reaped transcript is gone from the store.
	msgs, err := store.Messages(ctx, c.SessionKey())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestManagerSweepDisabled(t *testing.T) {
	m, _ := newTestManager(0)
	m.Get("s1")
	m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	assert.Equal(t, 0, m.SweepIdle(context.Background()))
	assert.Equal(t, 1, m.Len())
}
