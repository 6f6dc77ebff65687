package wm

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops clients whose application window is gone
// without the manager having seen its DestroyNotify, for example after the
// event was lost to a server error.
type Reconciler struct {
	m        *Manager
	interval time.Duration
	logger   *slog.Logger
}

// NewReconciler creates a reconciler for m.
func NewReconciler(m *Manager, cfg ReconcilerConfig) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = m.log
	}
	return &Reconciler{m: m, interval: interval, logger: logger}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.ReconcileNow(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("reconciler: pass failed", "err", err)
			}
		}
	}
}

// ReconcileNow runs one pass on the event loop and returns how many
// clients were dropped.
func (r *Reconciler) ReconcileNow(ctx context.Context) (int, error) {
	var dropped int
	err := r.m.Do(ctx, func() {
		for _, c := range r.m.reg.Clients() {
			if r.m.attached(c) {
				continue
			}
			r.logger.Info("reconciler: orphaned frame detected", "window", c.TopLevel, "frame", c.Frame)
			r.m.drop(c)
			dropped++
		}
	})
	return dropped, err
}

// attached reports whether c's application window is still a child of its
// frame. Only a BadWindow on the frame itself counts as detached; any other
// query failure keeps the client until the next pass.
func (m *Manager) attached(c Client) bool {
	children, err := m.svc.Children(c.Frame)
	if err != nil {
		var serr *ServerError
		if errors.As(err, &serr) && serr.Code == CodeBadWindow && Window(serr.Resource) == c.Frame {
			return false
		}
		m.log.Warn("reconciler: failed to query frame children", "frame", c.Frame, "err", err)
		return true
	}
	return slices.Contains(children, c.TopLevel)
}

// drop forgets c and destroys its frame without touching the application
// window, which no longer exists.
func (m *Manager) drop(c Client) {
	if err := m.svc.DestroyWindow(c.Frame); err != nil {
		m.log.Debug("failed to destroy orphaned frame", "frame", c.Frame, "err", err)
	}
	m.state.forget(c.Frame, m.reg)
	if m.focused == c.Frame {
		m.focused = 0
	}
	m.reg.Remove(c.Frame)
	m.publishClients()
}
