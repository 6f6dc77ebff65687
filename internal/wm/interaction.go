package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
)

func (m *Manager) onButtonPress(e ButtonPress) {
	c, ok := m.reg.ClientOf(e.Window)
	if !ok {
		m.log.Debug("button press on unmanaged window", "window", e.Window)
		return
	}

	m.activate(c)
	m.state.pendingClose = 0

	switch {
	case onCloseAffordance(c, e.Window, e.Child):
		if e.Button == Button1 {
			m.state.pendingClose = c.CloseAffordance
		}
	case e.Window == c.Titlebar:
		if e.Button == Button1 && m.titlebarDragAllowed(e.State) {
			m.beginDrag(c, DragMove, e)
		}
	case e.Window == c.TopLevel:
		if m.opts.DragModifier == 0 || e.State&m.opts.DragModifier != m.opts.DragModifier {
			return
		}
		switch {
		case e.Button == Button1:
			m.beginDrag(c, DragMove, e)
		case e.Button == Button3 && m.opts.EnableResize:
			m.beginDrag(c, DragResize, e)
		}
	}
}

func (m *Manager) titlebarDragAllowed(state ModMask) bool {
	if !m.opts.DragRequiresModifier {
		return true
	}
	return m.opts.DragModifier != 0 && state&m.opts.DragModifier == m.opts.DragModifier
}

// beginDrag anchors a session on the frame's current geometry, queried
// fresh from the server.
func (m *Manager) beginDrag(c Client, mode DragMode, e ButtonPress) {
	g, err := m.svc.Geometry(c.Frame)
	if err != nil {
		m.log.Warn("failed to query frame geometry", "frame", c.Frame, "err", err)
		m.state.phase = PhaseIdle
		m.state.session = Session{}
		return
	}
	m.state.session = Session{
		Mode:            mode,
		Frame:           c.Frame,
		Button:          e.Button,
		AnchorPointer:   e.Root,
		AnchorFramePos:  g.Pos,
		AnchorFrameSize: g.Size,
	}
	m.state.phase = PhaseDragging
	m.log.Debug("drag started", "mode", mode, "frame", c.Frame, "anchor", e.Root, "frame_pos", g.Pos)
}

func (m *Manager) onMotionNotify(e MotionNotify) {
	if m.state.phase != PhaseDragging {
		return
	}
	s := m.state.session
	if e.State&s.Button.ButtonMask() == 0 {
		return
	}
	delta := e.Root.Sub(s.AnchorPointer)

	switch s.Mode {
	case DragMove:
		dest := s.AnchorFramePos.Add(delta)
		if err := m.svc.Move(s.Frame, dest); err != nil {
			m.log.Warn("failed to move frame", "frame", s.Frame, "err", err)
		}
	case DragResize:
		c, ok := m.reg.LookupClient(s.Frame)
		if !ok {
			return
		}
		size := s.AnchorFrameSize.Add(delta).Clamp(m.opts.minFrameSize())
		m.relayout(c, size)
	}
}

func (m *Manager) onButtonRelease(e ButtonRelease) {
	if m.state.phase == PhaseDragging && e.Button == m.state.session.Button {
		m.log.Debug("drag finished", "frame", m.state.session.Frame)
		m.state.phase = PhaseIdle
		m.state.session = Session{}
	}

	pending := m.state.pendingClose
	m.state.pendingClose = 0
	if pending == 0 || e.Button != Button1 {
		return
	}
	c, ok := m.reg.ClientOf(pending)
	if !ok || c.CloseAffordance != pending || !onCloseAffordance(c, e.Window, e.Child) {
		m.log.Debug("close cancelled, released outside button", "window", pending)
		return
	}

	p := e.Pos
	if e.Window != pending {
		g, err := m.svc.Geometry(pending)
		if err != nil {
			m.log.Warn("failed to query close button geometry", "window", pending, "err", err)
			return
		}
		p = geom.Position{X: p.X - g.Pos.X, Y: p.Y - g.Pos.Y}
	}
	if !m.closeAffordanceSize().Contains(p) {
		m.log.Debug("close cancelled, released outside button", "window", pending)
		return
	}
	m.closeClient(c.TopLevel)
}

// onCloseAffordance reports whether a button event on w hit c's close
// button. The titlebar's grab also covers the button inside it, so such
// events arrive on the titlebar with the button as child.
func onCloseAffordance(c Client, w, child Window) bool {
	if c.CloseAffordance == 0 {
		return false
	}
	return w == c.CloseAffordance || (w == c.Titlebar && child == c.CloseAffordance)
}

func (m *Manager) closeAffordanceSize() geom.Size {
	tb := m.opts.TitlebarHeight
	return geom.Size{Width: tb, Height: tb}
}

func (m *Manager) onKeyPress(e KeyPress) {
	switch {
	case m.closeKey.Matches(e.Keycode, e.State):
		c, ok := m.reg.ClientOf(e.Window)
		if !ok {
			c, ok = m.reg.LookupClient(m.focused)
		}
		if !ok {
			m.log.Debug("close key pressed with no target", "window", e.Window)
			return
		}
		m.closeClient(c.TopLevel)
	case m.cycleKey.Matches(e.Keycode, e.State):
		m.cycle()
	}
}

// cycle raises and focuses the client registered after the focused one.
func (m *Manager) cycle() {
	clients := m.reg.Clients()
	if len(clients) == 0 {
		return
	}
	next := 0
	for i, c := range clients {
		if c.Frame == m.focused {
			next = (i + 1) % len(clients)
			break
		}
	}
	m.activate(clients[next])
}

// activate raises c's frame and gives its window the input focus. Focus is
// always requested since another client may have taken it; the active
// window is only republished on change.
func (m *Manager) activate(c Client) {
	if err := m.svc.Raise(c.Frame); err != nil {
		m.log.Warn("failed to raise frame", "frame", c.Frame, "err", err)
	}
	if err := m.svc.Focus(c.TopLevel); err != nil {
		m.log.Debug("failed to focus window", "window", c.TopLevel, "err", err)
		return
	}
	if m.focused == c.Frame {
		return
	}
	m.focused = c.Frame
	if err := m.svc.SetActive(c.TopLevel); err != nil {
		m.log.Debug("failed to publish active window", "window", c.TopLevel, "err", err)
	}
}

// onConfigureRequest forwards a configure request. For a managed window
// the position and stacking go to the frame and the size to both, with
// the titlebar added to the frame height. Fields absent from the request
// mask are never sent.
func (m *Manager) onConfigureRequest(e ConfigureRequest) {
	req := e.Changes
	c, managed := m.reg.ClientOf(e.Window)
	if !managed || c.TopLevel != e.Window {
		if err := m.svc.Configure(e.Window, req); err != nil {
			m.log.Warn("failed to configure window", "window", e.Window, "err", err)
		}
		return
	}

	frameMask := req.Mask & (ConfigX | ConfigY | ConfigWidth | ConfigHeight | ConfigSibling | ConfigStackMode)
	if frameMask != 0 {
		fc := req
		fc.Mask = frameMask
		fc.Size.Height = req.Size.Height + m.opts.TitlebarHeight
		if err := m.svc.Configure(c.Frame, fc); err != nil {
			m.log.Warn("failed to configure frame", "frame", c.Frame, "err", err)
		}
	}

	clientMask := req.Mask & (ConfigWidth | ConfigHeight | ConfigBorderWidth)
	if clientMask != 0 {
		cc := Changes{Mask: clientMask, Size: req.Size, BorderWidth: req.BorderWidth}
		if err := m.svc.Configure(c.TopLevel, cc); err != nil {
			m.log.Warn("failed to configure window", "window", c.TopLevel, "err", err)
		}
	}

	if req.Mask&ConfigWidth != 0 {
		m.relayoutDecorations(c, req.Size.Width)
	}
	m.log.Debug("configure request forwarded", "window", e.Window, "frame", c.Frame, "changes", req)
}
