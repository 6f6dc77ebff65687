package wm

import (
	"errors"

	"github.com/1broseidon/framewm/internal/geom"
)

// frame decorates top. preExisting windows that are override-redirect or
// not viewable are left alone. Failures are logged, top is handed back to
// the root and any partially created frame is destroyed.
func (m *Manager) frame(top Window, preExisting bool) (Client, bool) {
	if _, ok := m.reg.LookupFrame(top); ok {
		m.log.Debug("window already framed", "window", top)
		return Client{}, false
	}

	attrs, err := m.svc.Attributes(top)
	if err != nil {
		m.log.Warn("failed to query window attributes", "window", top, "err", err)
		return Client{}, false
	}
	if preExisting && (attrs.OverrideRedirect || !attrs.Viewable) {
		return Client{}, false
	}
	if attrs.OverrideRedirect {
		return Client{}, false
	}

	g, err := m.svc.Geometry(top)
	if err != nil {
		m.log.Warn("failed to query window geometry", "window", top, "err", err)
		return Client{}, false
	}

	c, err := m.decorate(top, g)
	if err != nil {
		m.log.Warn("failed to frame window", "window", top, "err", err)
		m.abandon(c)
		return Client{}, false
	}

	if err := m.reg.Register(c.Keys(), c.Frame, c); err != nil {
		m.log.Error("failed to register client", "window", top, "frame", c.Frame, "err", err)
		if rerr := m.restore(top, g.Pos); rerr != nil {
			m.log.Warn("failed to release window from frame", "window", top, "err", rerr)
		}
		m.abandon(c)
		return Client{}, false
	}
	m.grab(c)
	m.publishClients()
	m.drawTitle(c)

	m.log.Info("framed window", "window", top, "frame", c.Frame, "geometry", geom.Rect{Position: g.Pos, Size: g.Size}, "pre_existing", preExisting)
	return c, true
}

// decorate creates the frame windows and reparents top into them. The
// returned Client carries whatever was created so far on error.
func (m *Manager) decorate(top Window, g Geometry) (Client, error) {
	tb := m.opts.TitlebarHeight
	colors := m.opts.Colors
	c := Client{TopLevel: top}

	frame, err := m.svc.CreateWindow(m.root, WindowSpec{
		Pos:         g.Pos,
		Size:        geom.Size{Width: g.Size.Width, Height: g.Size.Height + tb},
		BorderWidth: m.opts.BorderWidth,
		BorderColor: colors.Border,
		Background:  colors.Frame,
		Events:      EventSubstructure,
	})
	if err != nil {
		return c, err
	}
	c.Frame = frame

	titlebar, err := m.svc.CreateWindow(frame, WindowSpec{
		Size:       geom.Size{Width: g.Size.Width, Height: tb},
		Background: colors.Titlebar,
		Events:     EventExposure,
		Cursor:     CursorMove,
	})
	if err != nil {
		return c, err
	}
	c.Titlebar = titlebar

	if m.opts.EnableTitlebarCloseButton {
		closeBtn, err := m.svc.CreateWindow(titlebar, WindowSpec{
			Pos:        geom.Position{X: g.Size.Width - tb},
			Size:       geom.Size{Width: tb, Height: tb},
			Background: colors.CloseButton,
			Events:     EventExposure,
		})
		if err != nil {
			return c, err
		}
		c.CloseAffordance = closeBtn
	}

	if err := m.svc.AddToSaveSet(top); err != nil {
		return c, err
	}
	if err := m.svc.Reparent(top, frame, geom.Position{Y: tb}); err != nil {
		return c, errors.Join(err, m.svc.RemoveFromSaveSet(top))
	}
	for _, w := range []Window{c.CloseAffordance, titlebar, frame} {
		if w == 0 {
			continue
		}
		if err := m.svc.Map(w); err != nil {
			return c, errors.Join(err, m.restore(top, g.Pos))
		}
	}
	return c, nil
}

// restore moves top out of its frame back to the root at pos and drops it
// from the save set, so destroying the frame leaves it alive.
func (m *Manager) restore(top Window, pos geom.Position) error {
	return errors.Join(
		m.svc.Reparent(top, m.root, pos),
		m.svc.RemoveFromSaveSet(top),
	)
}

// abandon destroys whatever part of c's frame was created.
func (m *Manager) abandon(c Client) {
	if c.Frame == 0 {
		return
	}
	if err := m.svc.DestroyWindow(c.Frame); err != nil {
		m.log.Debug("failed to destroy partial frame", "frame", c.Frame, "err", err)
	}
}

// grab registers the input bindings of a freshly framed client. A failed
// grab disables that binding only.
func (m *Manager) grab(c Client) {
	var titleMods ModMask
	if m.opts.DragRequiresModifier {
		titleMods = m.opts.DragModifier
	}

	buttons := []struct {
		w Window
		b ButtonBinding
	}{
		{c.CloseAffordance, ButtonBinding{Button: Button1}},
		{c.Titlebar, ButtonBinding{Button: Button1, Mods: titleMods, Motion: true}},
		{c.TopLevel, ButtonBinding{Button: Button1, Replay: true}},
	}
	if m.opts.DragModifier != 0 {
		buttons = append(buttons, struct {
			w Window
			b ButtonBinding
		}{c.TopLevel, ButtonBinding{Button: Button1, Mods: m.opts.DragModifier, Motion: true}})
		if m.opts.EnableResize {
			buttons = append(buttons, struct {
				w Window
				b ButtonBinding
			}{c.TopLevel, ButtonBinding{Button: Button3, Mods: m.opts.DragModifier, Motion: true}})
		}
	}
	for _, g := range buttons {
		if g.w == 0 {
			continue
		}
		if err := m.svc.GrabButton(g.w, g.b); err != nil {
			m.log.Warn("failed to grab button", "window", g.w, "button", g.b.Button, "err", err)
		}
	}

	for _, kb := range []KeyBinding{m.closeKey, m.cycleKey} {
		if len(kb.Codes) == 0 {
			continue
		}
		if err := m.svc.GrabKey(c.Frame, kb); err != nil {
			m.log.Warn("failed to grab key", "window", c.Frame, "key", kb.Spec, "err", err)
		}
	}
}

// unframe releases top back to the root and forgets its client. Unknown
// windows are ignored.
func (m *Manager) unframe(top Window) {
	c, ok := m.reg.ClientOf(top)
	if !ok || c.TopLevel != top {
		return
	}

	if err := m.svc.Unmap(c.Frame); err != nil {
		m.log.Warn("failed to unmap frame", "frame", c.Frame, "err", err)
	}
	if err := m.svc.Reparent(top, m.root, geom.Position{}); err != nil {
		m.log.Warn("failed to reparent window to root", "window", top, "err", err)
	}
	if err := m.svc.RemoveFromSaveSet(top); err != nil {
		m.log.Warn("failed to remove window from save set", "window", top, "err", err)
	}
	if err := m.svc.DestroyWindow(c.Frame); err != nil {
		m.log.Warn("failed to destroy frame", "frame", c.Frame, "err", err)
	}

	m.state.forget(c.Frame, m.reg)
	if m.focused == c.Frame {
		m.focused = 0
	}
	m.reg.Remove(c.Frame)
	m.publishClients()

	m.log.Info("unframed window", "window", top, "frame", c.Frame)
}

// relayout resizes a client's decorations to a new frame size.
func (m *Manager) relayout(c Client, frameSize geom.Size) {
	tb := m.opts.TitlebarHeight
	clientSize := geom.Size{Width: frameSize.Width, Height: frameSize.Height - tb}

	if err := m.svc.Configure(c.Frame, Changes{Mask: ConfigWidth | ConfigHeight, Size: frameSize}); err != nil {
		m.log.Warn("failed to resize frame", "frame", c.Frame, "err", err)
		return
	}
	m.relayoutDecorations(c, frameSize.Width)
	if err := m.svc.Configure(c.TopLevel, Changes{Mask: ConfigWidth | ConfigHeight, Size: clientSize}); err != nil {
		m.log.Warn("failed to resize window", "window", c.TopLevel, "err", err)
	}
}

func (m *Manager) relayoutDecorations(c Client, width int) {
	tb := m.opts.TitlebarHeight
	if err := m.svc.Configure(c.Titlebar, Changes{Mask: ConfigWidth, Size: geom.Size{Width: width}}); err != nil {
		m.log.Warn("failed to resize titlebar", "titlebar", c.Titlebar, "err", err)
	}
	if c.CloseAffordance != 0 {
		if err := m.svc.Move(c.CloseAffordance, geom.Position{X: width - tb}); err != nil {
			m.log.Warn("failed to move close button", "window", c.CloseAffordance, "err", err)
		}
	}
}
