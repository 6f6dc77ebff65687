package wm

import "slices"

const (
	atomWMProtocols    = "WM_PROTOCOLS"
	atomWMDeleteWindow = "WM_DELETE_WINDOW"
)

// closeClient asks top to close itself when it advertises
// WM_DELETE_WINDOW and kills its connection otherwise. Nothing blocks and
// failures are only logged.
func (m *Manager) closeClient(top Window) {
	if m.opts.GracefulCloseEnabled && m.supportsDelete(top) {
		if err := m.sendDelete(top); err != nil {
			m.log.Warn("failed to send WM_DELETE_WINDOW", "window", top, "err", err)
			return
		}
		m.log.Info("requested window close", "window", top)
		return
	}

	if err := m.svc.Kill(top); err != nil {
		m.log.Warn("failed to kill client", "window", top, "err", err)
		return
	}
	m.log.Info("killed client", "window", top)
}

func (m *Manager) supportsDelete(top Window) bool {
	protocols, err := m.svc.Protocols(top)
	if err != nil {
		m.log.Debug("failed to read WM_PROTOCOLS", "window", top, "err", err)
		return false
	}
	return slices.Contains(protocols, atomWMDeleteWindow)
}

func (m *Manager) sendDelete(top Window) error {
	protocols, err := m.svc.Atom(atomWMProtocols)
	if err != nil {
		return err
	}
	del, err := m.svc.Atom(atomWMDeleteWindow)
	if err != nil {
		return err
	}
	return m.svc.SendClientMessage(ClientMessage{
		Window: top,
		Type:   protocols,
		Data:   [5]uint32{uint32(del), 0},
	})
}
