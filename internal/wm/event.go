package wm

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/geom"
)

// Event is one notification from the windowing server. The set of
// implementations is closed; Manager.Dispatch switches over all of them.
type Event interface {
	event()
}

type CreateNotify struct {
	Parent Window
	Window Window
}

type DestroyNotify struct {
	Event  Window
	Window Window
}

type ReparentNotify struct {
	Event  Window
	Window Window
	Parent Window
}

type MapNotify struct {
	Event  Window
	Window Window
}

// UnmapNotify reports a window leaving the mapped state. Event is the
// window the notification was selected on: the root for substructure
// notifications caused by reparenting pre-existing windows.
type UnmapNotify struct {
	Event  Window
	Window Window
}

type ConfigureNotify struct {
	Event  Window
	Window Window
	Pos    geom.Position
	Size   geom.Size
}

type MapRequest struct {
	Parent Window
	Window Window
}

// ConfigureRequest carries only the fields named in Changes.Mask.
type ConfigureRequest struct {
	Parent  Window
	Window  Window
	Changes Changes
}

// ButtonPress is a pointer button going down. Root is in root
// coordinates, Pos relative to Window.
type ButtonPress struct {
	Window Window
	Child  Window // child of Window under the pointer, if any
	Button Button
	State  ModMask
	Root   geom.Position
	Pos    geom.Position
}

type ButtonRelease struct {
	Window Window
	Child  Window // child of Window under the pointer, if any
	Button Button
	State  ModMask
	Root   geom.Position
	Pos    geom.Position
}

type MotionNotify struct {
	Window Window
	State  ModMask
	Root   geom.Position
}

type KeyPress struct {
	Window  Window
	Keycode Keycode
	State   ModMask
}

type KeyRelease struct {
	Window  Window
	Keycode Keycode
	State   ModMask
}

// Expose asks for a window's contents to be redrawn. Count is the number
// of Expose events still following for the same window.
type Expose struct {
	Window Window
	Count  int
}

func (CreateNotify) event()     {}
func (DestroyNotify) event()    {}
func (ReparentNotify) event()   {}
func (MapNotify) event()        {}
func (UnmapNotify) event()      {}
func (ConfigureNotify) event()  {}
func (MapRequest) event()       {}
func (ConfigureRequest) event() {}
func (ButtonPress) event()      {}
func (ButtonRelease) event()    {}
func (MotionNotify) event()     {}
func (KeyPress) event()         {}
func (KeyRelease) event()       {}
func (Expose) event()           {}

// Describe renders an event for trace logging.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case CreateNotify:
		return fmt.Sprintf("CreateNotify window=0x%x parent=0x%x", e.Window, e.Parent)
	case DestroyNotify:
		return fmt.Sprintf("DestroyNotify window=0x%x event=0x%x", e.Window, e.Event)
	case ReparentNotify:
		return fmt.Sprintf("ReparentNotify window=0x%x parent=0x%x", e.Window, e.Parent)
	case MapNotify:
		return fmt.Sprintf("MapNotify window=0x%x event=0x%x", e.Window, e.Event)
	case UnmapNotify:
		return fmt.Sprintf("UnmapNotify window=0x%x event=0x%x", e.Window, e.Event)
	case ConfigureNotify:
		return fmt.Sprintf("ConfigureNotify window=0x%x %s@%s", e.Window, e.Size, e.Pos)
	case MapRequest:
		return fmt.Sprintf("MapRequest window=0x%x", e.Window)
	case ConfigureRequest:
		return fmt.Sprintf("ConfigureRequest window=0x%x %s", e.Window, e.Changes)
	case ButtonPress:
		return fmt.Sprintf("ButtonPress window=0x%x button=%d state=0x%x root=%s", e.Window, e.Button, uint16(e.State), e.Root)
	case ButtonRelease:
		return fmt.Sprintf("ButtonRelease window=0x%x button=%d state=0x%x root=%s", e.Window, e.Button, uint16(e.State), e.Root)
	case MotionNotify:
		return fmt.Sprintf("MotionNotify window=0x%x state=0x%x root=%s", e.Window, uint16(e.State), e.Root)
	case KeyPress:
		return fmt.Sprintf("KeyPress window=0x%x keycode=%d state=0x%x", e.Window, e.Keycode, uint16(e.State))
	case KeyRelease:
		return fmt.Sprintf("KeyRelease window=0x%x keycode=%d state=0x%x", e.Window, e.Keycode, uint16(e.State))
	case Expose:
		return fmt.Sprintf("Expose window=0x%x count=%d", e.Window, e.Count)
	default:
		return fmt.Sprintf("%T", ev)
	}
}
