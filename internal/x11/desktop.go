package x11

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/framewm/internal/wm"
)

// supportedHints are the EWMH properties the manager maintains.
var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
}

// initCursors creates the cursor shapes decorations may request. A missing
// cursor font only costs the shape.
func (c *Connection) initCursors() {
	shapes := map[wm.Cursor]uint16{
		wm.CursorDefault: xcursor.LeftPtr,
		wm.CursorMove:    xcursor.Fleur,
	}
	for name, shape := range shapes {
		cur, err := xcursor.CreateCursor(c.XUtil, shape)
		if err != nil {
			continue
		}
		c.cursors[name] = cur
	}
}

// Announce creates the _NET_SUPPORTING_WM_CHECK window and names the
// manager on it so EWMH clients and pagers can find it.
func (c *Connection) Announce(name string) error {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("failed to allocate check window: %w", err)
	}
	if err := win.CreateChecked(c.root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	c.checkWin = win.Id

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.root, win.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, win.Id, win.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, win.Id, name); err != nil {
		return fmt.Errorf("failed to set wm name: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedHints); err != nil {
		return fmt.Errorf("failed to set supported hints: %w", err)
	}
	return nil
}

// SetRootCursor shows the left pointer over the bare desktop.
func (c *Connection) SetRootCursor() error {
	cur, ok := c.cursors[wm.CursorDefault]
	if !ok {
		return fmt.Errorf("left pointer cursor unavailable")
	}
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.root, xproto.CwCursor, []uint32{uint32(cur)}).Check()
}

// SetBackground paints the root window. When imagePath is set the image is
// scaled to the screen; otherwise the solid color is used.
func (c *Connection) SetBackground(color uint32, imagePath string) error {
	if imagePath == "" {
		return c.SetColors(wm.Window(c.root), color, 0)
	}

	img, err := xgraphics.NewFileName(c.XUtil, imagePath)
	if err != nil {
		return fmt.Errorf("failed to load background image: %w", err)
	}
	screen := c.XUtil.Screen()
	scaled := img.Scale(int(screen.WidthInPixels), int(screen.HeightInPixels))

	if err := scaled.XSurfaceSet(c.root); err != nil {
		return fmt.Errorf("failed to set background surface: %w", err)
	}
	scaled.XDraw()
	scaled.XPaint(c.root)
	return nil
}

// Withdraw removes the check window published by Announce.
func (c *Connection) Withdraw() {
	if c.checkWin == 0 {
		return
	}
	xproto.DeleteProperty(c.XUtil.Conn(), c.root, c.atomOrNone("_NET_SUPPORTING_WM_CHECK"))
	xproto.DestroyWindow(c.XUtil.Conn(), c.checkWin)
	c.checkWin = 0
}

func (c *Connection) atomOrNone(name string) xproto.Atom {
	a, err := c.Atom(name)
	if err != nil {
		return xproto.AtomNone
	}
	return xproto.Atom(a)
}
