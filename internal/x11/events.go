package x11

import (
	"context"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

// read pumps the wire into the queue until the connection closes.
func (c *Connection) read() {
	defer close(c.queue)
	conn := c.XUtil.Conn()
	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		select {
		case c.queue <- incoming{ev: ev, err: err}:
		case <-c.done:
			return
		}
	}
}

// NextEvent blocks until the next event the manager understands. Errors
// for unchecked requests are handed to the error handler on the way.
func (c *Connection) NextEvent(ctx context.Context) (wm.Event, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case in, ok := <-c.queue:
			if !ok {
				return nil, wm.ErrClosed
			}
			if in.err != nil {
				c.reportError(in.err)
				continue
			}
			ev, ok := translate(in.ev)
			if !ok {
				continue
			}
			if _, press := ev.(wm.ButtonPress); press {
				// Thaws a synchronous grab and passes the press on to the
				// client. Ignored when the pointer is not frozen.
				xproto.AllowEvents(c.XUtil.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
			}
			return ev, nil
		}
	}
}

// translate maps a wire event onto the manager's event set.
func translate(ev xgb.Event) (wm.Event, bool) {
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		return wm.CreateNotify{Parent: wm.Window(e.Parent), Window: wm.Window(e.Window)}, true
	case xproto.DestroyNotifyEvent:
		return wm.DestroyNotify{Event: wm.Window(e.Event), Window: wm.Window(e.Window)}, true
	case xproto.ReparentNotifyEvent:
		return wm.ReparentNotify{Event: wm.Window(e.Event), Window: wm.Window(e.Window), Parent: wm.Window(e.Parent)}, true
	case xproto.MapNotifyEvent:
		return wm.MapNotify{Event: wm.Window(e.Event), Window: wm.Window(e.Window)}, true
	case xproto.UnmapNotifyEvent:
		return wm.UnmapNotify{Event: wm.Window(e.Event), Window: wm.Window(e.Window)}, true
	case xproto.ConfigureNotifyEvent:
		return wm.ConfigureNotify{
			Event:  wm.Window(e.Event),
			Window: wm.Window(e.Window),
			Pos:    geom.Position{X: int(e.X), Y: int(e.Y)},
			Size:   geom.Size{Width: int(e.Width), Height: int(e.Height)},
		}, true
	case xproto.MapRequestEvent:
		return wm.MapRequest{Parent: wm.Window(e.Parent), Window: wm.Window(e.Window)}, true
	case xproto.ConfigureRequestEvent:
		return wm.ConfigureRequest{
			Parent: wm.Window(e.Parent),
			Window: wm.Window(e.Window),
			Changes: wm.Changes{
				Mask:        wm.ConfigMask(e.ValueMask),
				Pos:         geom.Position{X: int(e.X), Y: int(e.Y)},
				Size:        geom.Size{Width: int(e.Width), Height: int(e.Height)},
				BorderWidth: int(e.BorderWidth),
				Sibling:     wm.Window(e.Sibling),
				StackMode:   wm.StackMode(e.StackMode),
			},
		}, true
	case xproto.ButtonPressEvent:
		return wm.ButtonPress{
			Window: wm.Window(e.Event),
			Child:  wm.Window(e.Child),
			Button: wm.Button(e.Detail),
			State:  wm.ModMask(e.State),
			Root:   geom.Position{X: int(e.RootX), Y: int(e.RootY)},
			Pos:    geom.Position{X: int(e.EventX), Y: int(e.EventY)},
		}, true
	case xproto.ButtonReleaseEvent:
		return wm.ButtonRelease{
			Window: wm.Window(e.Event),
			Child:  wm.Window(e.Child),
			Button: wm.Button(e.Detail),
			State:  wm.ModMask(e.State),
			Root:   geom.Position{X: int(e.RootX), Y: int(e.RootY)},
			Pos:    geom.Position{X: int(e.EventX), Y: int(e.EventY)},
		}, true
	case xproto.MotionNotifyEvent:
		return wm.MotionNotify{
			Window: wm.Window(e.Event),
			State:  wm.ModMask(e.State),
			Root:   geom.Position{X: int(e.RootX), Y: int(e.RootY)},
		}, true
	case xproto.KeyPressEvent:
		return wm.KeyPress{Window: wm.Window(e.Event), Keycode: wm.Keycode(e.Detail), State: wm.ModMask(e.State)}, true
	case xproto.KeyReleaseEvent:
		return wm.KeyRelease{Window: wm.Window(e.Event), Keycode: wm.Keycode(e.Detail), State: wm.ModMask(e.State)}, true
	case xproto.ExposeEvent:
		return wm.Expose{Window: wm.Window(e.Window), Count: int(e.Count)}, true
	}
	return nil, false
}
