package wm

import (
	"context"
	"fmt"
	"time"

	"github.com/1broseidon/framewm/internal/geom"
)

// ClientInfo is a snapshot of one managed client.
type ClientInfo struct {
	TopLevel Window
	Frame    Window
	Title    string
	Bounds   geom.Rect
	Focused  bool
}

// Status summarizes the running manager.
type Status struct {
	Clients int
	Uptime  time.Duration
	Phase   Phase
}

// Do runs fn on the event loop goroutine and waits for it to finish.
func (m *Manager) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn()
	}
	select {
	case m.calls <- call:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clients lists the managed clients in registration order.
func (m *Manager) Clients(ctx context.Context) ([]ClientInfo, error) {
	var out []ClientInfo
	err := m.Do(ctx, func() {
		for _, c := range m.reg.Clients() {
			info := ClientInfo{TopLevel: c.TopLevel, Frame: c.Frame, Focused: c.Frame == m.focused}
			if g, err := m.svc.Geometry(c.Frame); err == nil {
				info.Bounds = geom.Rect{Position: g.Pos, Size: g.Size}
			}
			if name, err := m.svc.WindowName(c.TopLevel); err == nil {
				info.Title = name
			}
			out = append(out, info)
		}
	})
	return out, err
}

// Status reports the client count and uptime.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	var st Status
	err := m.Do(ctx, func() {
		st = Status{Clients: m.reg.Len(), Uptime: time.Since(m.started), Phase: m.state.phase}
	})
	return st, err
}

// CloseWindow runs the close protocol on the client owning w, which may be
// either its application window or its frame.
func (m *Manager) CloseWindow(ctx context.Context, w Window) error {
	var found bool
	err := m.Do(ctx, func() {
		c, ok := m.reg.ClientOf(w)
		if !ok {
			return
		}
		found = true
		m.closeClient(c.TopLevel)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("window 0x%x is not managed", uint32(w))
	}
	return nil
}

// Reconfigure swaps the options. Colors are re-applied to existing frames;
// grabs and decoration sizes apply to windows framed afterwards.
func (m *Manager) Reconfigure(ctx context.Context, opts Options) error {
	return m.Do(ctx, func() { m.apply(opts) })
}

func (m *Manager) apply(opts Options) {
	keysChanged := opts.CloseKey != m.opts.CloseKey || opts.CycleKey != m.opts.CycleKey
	opts.TitlebarHeight = m.opts.TitlebarHeight
	m.opts = opts
	if keysChanged {
		m.resolveKeys()
	}

	for _, c := range m.reg.Clients() {
		ws := []struct {
			w          Window
			background uint32
		}{
			{c.Frame, opts.Colors.Frame},
			{c.Titlebar, opts.Colors.Titlebar},
			{c.CloseAffordance, opts.Colors.CloseButton},
		}
		for _, x := range ws {
			if x.w == 0 {
				continue
			}
			if err := m.svc.SetColors(x.w, x.background, opts.Colors.Border); err != nil {
				m.log.Warn("failed to recolor window", "window", x.w, "err", err)
			}
		}
		m.drawTitle(c)
		if c.CloseAffordance != 0 {
			if err := m.svc.DrawCloseGlyph(c.CloseAffordance, opts.Colors.CloseGlyph, opts.Colors.CloseButton); err != nil {
				m.log.Debug("failed to draw close glyph", "window", c.CloseAffordance, "err", err)
			}
		}
	}
	m.log.Info("configuration applied", "clients", m.reg.Len())
}
