package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/framewm/internal/wm"
)

// ResolveKey parses a key string such as "Mod1-F4" against the current
// keyboard mapping.
func (c *Connection) ResolveKey(spec string) (wm.KeyBinding, error) {
	mods, codes, err := keybind.ParseString(c.XUtil, spec)
	if err != nil {
		return wm.KeyBinding{}, fmt.Errorf("invalid key %q: %w", spec, err)
	}
	if len(codes) == 0 {
		return wm.KeyBinding{}, fmt.Errorf("key %q has no keycode in the current mapping", spec)
	}
	kb := wm.KeyBinding{Spec: spec, Mods: wm.ModMask(mods)}
	for _, code := range codes {
		kb.Codes = append(kb.Codes, wm.Keycode(code))
	}
	return kb, nil
}

// GrabKey grabs every keycode of key on w, including the lock modifier
// combinations.
func (c *Connection) GrabKey(w wm.Window, key wm.KeyBinding) error {
	for _, code := range key.Codes {
		if err := keybind.GrabChecked(c.XUtil, xproto.Window(w), uint16(key.Mods), xproto.Keycode(code)); err != nil {
			return fmt.Errorf("failed to grab key %s: %w", key.Spec, err)
		}
	}
	return nil
}

// GrabButton installs a passive button grab on w. Replay grabs freeze the
// pointer so the press can be handed on to the client afterwards.
func (c *Connection) GrabButton(w wm.Window, b wm.ButtonBinding) error {
	win := xproto.Window(w)
	if !b.Motion {
		return mousebind.GrabChecked(c.XUtil, win, uint16(b.Mods), xproto.Button(b.Button), b.Replay)
	}

	pointerMode := byte(xproto.GrabModeAsync)
	if b.Replay {
		pointerMode = xproto.GrabModeSync
	}
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskButtonMotion)
	for _, m := range xevent.IgnoreMods {
		err := xproto.GrabButtonChecked(c.XUtil.Conn(), false, win, mask,
			pointerMode, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
			byte(b.Button), uint16(b.Mods)|m).Check()
		if err != nil {
			return fmt.Errorf("failed to grab button %d: %w", b.Button, err)
		}
	}
	return nil
}
