// Package wm implements the window framing and interaction core of the
// manager: which windows are managed, the frames around them, pointer
// drags and the close handshake. All X11 traffic goes through Service.
package wm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// LevelTrace is used for per-event dispatch logging.
const LevelTrace = slog.LevelDebug - 4

// Manager owns the client registry and the interaction state. Every method
// that touches them runs on the goroutine executing Run, or before Run
// starts.
type Manager struct {
	svc  Service
	log  *slog.Logger
	opts Options
	root Window

	reg     *Registry
	state   interaction
	focused Window // frame of the focused client

	closeKey KeyBinding
	cycleKey KeyBinding

	calls   chan func()
	started time.Time
}

// New creates a manager over svc. Key bindings are resolved immediately;
// a binding that cannot be resolved is logged and left disabled.
func New(svc Service, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		svc:   svc,
		log:   logger,
		opts:  opts,
		root:  svc.Root(),
		reg:   NewRegistry(),
		calls: make(chan func()),
	}
	m.resolveKeys()
	svc.SetErrorHandler(m.onServerError)
	return m
}

func (m *Manager) resolveKeys() {
	m.closeKey = m.resolveKey("close_key", m.opts.CloseKey)
	m.cycleKey = m.resolveKey("cycle_key", m.opts.CycleKey)
}

func (m *Manager) resolveKey(name, spec string) KeyBinding {
	if spec == "" {
		return KeyBinding{}
	}
	kb, err := m.svc.ResolveKey(spec)
	if err != nil {
		m.log.Warn("key binding disabled", "binding", name, "key", spec, "err", err)
		return KeyBinding{}
	}
	return kb
}

// Registry exposes the client registry for inspection.
func (m *Manager) Registry() *Registry { return m.reg }

// Phase reports the current interaction phase.
func (m *Manager) Phase() Phase { return m.state.phase }

// Session returns the active drag session, if any.
func (m *Manager) Session() (Session, bool) {
	return m.state.session, m.state.phase == PhaseDragging
}

// Start claims substructure redirection on the root window and frames
// every window that already exists. It returns ErrAnotherWM when another
// manager owns the root.
func (m *Manager) Start() error {
	if err := m.svc.ClaimRoot(); err != nil {
		if errors.Is(err, ErrAnotherWM) {
			return err
		}
		return fmt.Errorf("failed to claim root window: %w", err)
	}
	m.started = time.Now()
	m.adopt()
	return nil
}

// adopt frames the root's existing children under a server grab so no
// window can change state halfway through.
func (m *Manager) adopt() {
	if err := m.svc.GrabServer(); err != nil {
		m.log.Warn("failed to grab server", "err", err)
	} else {
		defer func() {
			if err := m.svc.UngrabServer(); err != nil {
				m.log.Warn("failed to ungrab server", "err", err)
			}
		}()
	}

	children, err := m.svc.Children(m.root)
	if err != nil {
		m.log.Error("failed to list existing windows", "err", err)
		return
	}
	for _, w := range children {
		m.frame(w, true)
	}
	m.log.Info("adopted existing windows", "candidates", len(children), "managed", m.reg.Len())
}

type pumped struct {
	ev  Event
	err error
}

// Run processes events until ctx is cancelled or the service closes.
// Events and control calls are handled one at a time on the calling
// goroutine. On cancellation every client is released back to the root.
func (m *Manager) Run(ctx context.Context) error {
	if m.started.IsZero() {
		m.started = time.Now()
	}
	pumpCtx, stop := context.WithCancel(ctx)
	defer stop()

	events := make(chan pumped)
	go m.pump(pumpCtx, events)

	for {
		select {
		case <-ctx.Done():
			m.releaseAll()
			return nil
		case call := <-m.calls:
			call()
		case p := <-events:
			if p.err != nil {
				if errors.Is(p.err, ErrClosed) || errors.Is(p.err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("failed to read event: %w", p.err)
			}
			m.Dispatch(p.ev)
		}
	}
}

func (m *Manager) pump(ctx context.Context, out chan<- pumped) {
	for {
		ev, err := m.svc.NextEvent(ctx)
		select {
		case out <- pumped{ev: ev, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// Dispatch routes one event to its handler.
func (m *Manager) Dispatch(ev Event) {
	if m.log.Enabled(context.Background(), LevelTrace) {
		m.log.Log(context.Background(), LevelTrace, "event", "desc", Describe(ev), "phase", m.state.phase)
	}
	switch e := ev.(type) {
	case MapRequest:
		m.onMapRequest(e)
	case ConfigureRequest:
		m.onConfigureRequest(e)
	case UnmapNotify:
		m.onUnmapNotify(e)
	case DestroyNotify:
		m.onDestroyNotify(e)
	case ButtonPress:
		m.onButtonPress(e)
	case ButtonRelease:
		m.onButtonRelease(e)
	case MotionNotify:
		m.onMotionNotify(e)
	case KeyPress:
		m.onKeyPress(e)
	case Expose:
		m.onExpose(e)
	case CreateNotify, ReparentNotify, MapNotify, ConfigureNotify, KeyRelease:
	default:
		m.log.Debug("event not handled", "type", fmt.Sprintf("%T", ev))
	}
}

func (m *Manager) onServerError(err *ServerError) {
	m.log.Warn("X server reported an error",
		"error", err.Name,
		"request", err.Request,
		"resource", fmt.Sprintf("0x%x", err.Resource),
		"sequence", err.Sequence)
}

func (m *Manager) onMapRequest(e MapRequest) {
	m.frame(e.Window, false)
	if err := m.svc.Map(e.Window); err != nil {
		m.log.Warn("failed to map window", "window", e.Window, "err", err)
	}
}

func (m *Manager) onUnmapNotify(e UnmapNotify) {
	if !m.reg.IsTopLevel(e.Window) {
		m.log.Debug("unmap ignored for non-client window", "window", e.Window)
		return
	}
	if e.Event == m.root {
		m.log.Debug("unmap ignored for reparented pre-existing window", "window", e.Window)
		return
	}
	m.unframe(e.Window)
}

func (m *Manager) onDestroyNotify(e DestroyNotify) {
	if m.reg.IsTopLevel(e.Window) {
		m.unframe(e.Window)
	}
}

func (m *Manager) onExpose(e Expose) {
	if e.Count != 0 {
		return
	}
	c, ok := m.reg.ClientOf(e.Window)
	if !ok {
		return
	}
	switch e.Window {
	case c.Titlebar:
		m.drawTitle(c)
	case c.CloseAffordance:
		if err := m.svc.DrawCloseGlyph(c.CloseAffordance, m.opts.Colors.CloseGlyph, m.opts.Colors.CloseButton); err != nil {
			m.log.Debug("failed to draw close glyph", "window", c.CloseAffordance, "err", err)
		}
	}
}

func (m *Manager) drawTitle(c Client) {
	if !m.opts.ShowTitle {
		return
	}
	name, err := m.svc.WindowName(c.TopLevel)
	if err != nil || name == "" {
		return
	}
	if err := m.svc.DrawTitle(c.Titlebar, name, m.opts.Colors.TitleText, m.opts.Colors.Titlebar); err != nil {
		m.log.Debug("failed to draw title", "window", c.Titlebar, "err", err)
	}
}

// releaseAll hands every client back to the root window.
func (m *Manager) releaseAll() {
	for _, c := range m.reg.Clients() {
		m.unframe(c.TopLevel)
	}
}

func (m *Manager) publishClients() {
	clients := m.reg.Clients()
	wins := make([]Window, 0, len(clients))
	for _, c := range clients {
		wins = append(wins, c.TopLevel)
	}
	if err := m.svc.SetClientList(wins); err != nil {
		m.log.Debug("failed to publish client list", "err", err)
	}
}
