package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/framewm/internal/wm"
)

// Protocols returns the atom names listed in w's WM_PROTOCOLS property.
func (c *Connection) Protocols(w wm.Window) ([]string, error) {
	return icccm.WmProtocolsGet(c.XUtil, xproto.Window(w))
}

// Atom interns name. xgbutil caches the result.
func (c *Connection) Atom(name string) (wm.Atom, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return wm.Atom(atom), nil
}

// SendClientMessage delivers a 32-bit client message to msg.Window with an
// empty event mask, which targets the window's owner.
func (c *Connection) SendClientMessage(msg wm.ClientMessage) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(msg.Window),
		Type:   xproto.Atom(msg.Type),
		Data:   xproto.ClientMessageDataUnionData32New(msg.Data[:]),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		xproto.Window(msg.Window),
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// Kill closes the connection of the client owning w.
func (c *Connection) Kill(w wm.Window) error {
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(w)).Check()
}

// WindowName prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowName(w wm.Window) (string, error) {
	name, err := ewmh.WmNameGet(c.XUtil, xproto.Window(w))
	if err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(c.XUtil, xproto.Window(w))
}

// SetClientList publishes _NET_CLIENT_LIST.
func (c *Connection) SetClientList(ws []wm.Window) error {
	list := make([]xproto.Window, 0, len(ws))
	for _, w := range ws {
		list = append(list, xproto.Window(w))
	}
	return ewmh.ClientListSet(c.XUtil, list)
}

// SetActive publishes _NET_ACTIVE_WINDOW.
func (c *Connection) SetActive(w wm.Window) error {
	return ewmh.ActiveWindowSet(c.XUtil, xproto.Window(w))
}
