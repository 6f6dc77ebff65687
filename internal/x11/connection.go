package x11

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/framewm/internal/wm"
)

// Connection manages the X11 connection and implements wm.Service on it.
type Connection struct {
	XUtil *xgbutil.XUtil

	root xproto.Window

	queue chan incoming
	done  chan struct{}
	once  sync.Once

	mu    sync.Mutex
	onErr func(*wm.ServerError)

	gc       xproto.Gcontext
	font     xproto.Font
	ascent   int
	descent  int
	cursors  map[wm.Cursor]xproto.Cursor
	checkWin xproto.Window
}

var _ wm.Service = (*Connection)(nil)

// incoming is one item read off the wire: an event or an asynchronous error.
type incoming struct {
	ev  xgb.Event
	err xgb.Error
}

// NewConnection connects to display (empty means $DISPLAY) and prepares
// the drawing resources used for decorations.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to open display %q: %w", display, err)
	}

	// Required before any key string can be resolved.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil:   xu,
		root:    xu.RootWin(),
		queue:   make(chan incoming, 256),
		done:    make(chan struct{}),
		cursors: make(map[wm.Cursor]xproto.Cursor),
	}
	if err := c.initDrawing(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	c.initCursors()

	go c.read()
	return c, nil
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		c.XUtil.Conn().Close()
	})
}

func (c *Connection) Root() wm.Window { return wm.Window(c.root) }

// ClaimRoot selects substructure redirection on the root window. Only one
// client may hold it, so an access error means another window manager is
// running.
func (c *Connection) ClaimRoot() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.root, xproto.CwEventMask, []uint32{mask}).Check()
	if err == nil {
		return nil
	}
	var access xproto.AccessError
	if errors.As(err, &access) {
		return wm.ErrAnotherWM
	}
	return err
}

func (c *Connection) GrabServer() error {
	return xproto.GrabServerChecked(c.XUtil.Conn()).Check()
}

func (c *Connection) UngrabServer() error {
	return xproto.UngrabServerChecked(c.XUtil.Conn()).Check()
}

// Children returns the children of w in stacking order, bottom first.
func (c *Connection) Children(w wm.Window) ([]wm.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		if xerr, ok := err.(xgb.Error); ok {
			err = ServerError(xerr)
		}
		return nil, fmt.Errorf("failed to query tree: %w", err)
	}
	out := make([]wm.Window, 0, len(tree.Children))
	for _, child := range tree.Children {
		out = append(out, wm.Window(child))
	}
	return out, nil
}

// SetErrorHandler installs the callback receiving errors for requests that
// were sent unchecked.
func (c *Connection) SetErrorHandler(fn func(*wm.ServerError)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onErr = fn
}

func (c *Connection) reportError(err xgb.Error) {
	c.mu.Lock()
	fn := c.onErr
	c.mu.Unlock()
	if fn != nil {
		fn(ServerError(err))
	}
}
