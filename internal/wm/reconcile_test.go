package wm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/wm"
)

// running serves m's event loop until the test ends.
func running(t *testing.T, m *wm.Manager) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(callCancel)
	return callCtx
}

func TestReconcilerDropsVanishedClients(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	gone := manage(t, m, srv, 0x100, rect(0, 0, 300, 200))
	kept := manage(t, m, srv, 0x200, rect(0, 0, 300, 200))
	srv.Vanish(0x100)
	srv.Reset()

	ctx := running(t, m)
	r := wm.NewReconciler(m, wm.ReconcilerConfig{})
	n, err := r.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	clients, err := m.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, kept.TopLevel, clients[0].TopLevel)

	assert.Zero(t, srv.Count("Reparent"))
	assert.True(t, srv.Window(gone.Frame).Destroyed)
	assert.False(t, srv.Window(kept.Frame).Destroyed)
}

func TestReconcilerKeepsHealthyClients(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	manage(t, m, srv, 0x100, rect(0, 0, 300, 200))

	ctx := running(t, m)
	r := wm.NewReconciler(m, wm.ReconcilerConfig{Interval: time.Hour})
	n, err := r.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconcilerKeepsClientsWhenQueryFails(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(0, 0, 300, 200))
	srv.Fail["Children"] = assert.AnError
	srv.Reset()

	ctx := running(t, m)
	r := wm.NewReconciler(m, wm.ReconcilerConfig{})
	n, err := r.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clients, err := m.Clients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
	assert.Zero(t, srv.Count("DestroyWindow"))
	assert.False(t, srv.Window(c.Frame).Destroyed)
	assert.False(t, srv.Window(c.TopLevel).Destroyed)
}

func TestReconcilerDropsClientsWhoseFrameIsGone(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(0, 0, 300, 200))
	srv.Vanish(c.Frame)

	ctx := running(t, m)
	r := wm.NewReconciler(m, wm.ReconcilerConfig{})
	n, err := r.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	clients, err := m.Clients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}
