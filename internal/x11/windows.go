package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

// Attributes reports whether w bypasses the manager and whether it is viewable.
func (c *Connection) Attributes(w wm.Window) (wm.Attributes, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		return wm.Attributes{}, fmt.Errorf("failed to get window attributes: %w", err)
	}
	return wm.Attributes{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
	}, nil
}

// Geometry returns w's position relative to its parent and its size.
func (c *Connection) Geometry(w wm.Window) (wm.Geometry, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(w)).Reply()
	if err != nil {
		return wm.Geometry{}, fmt.Errorf("failed to get geometry: %w", err)
	}
	return wm.Geometry{
		Pos:         geom.Position{X: int(g.X), Y: int(g.Y)},
		Size:        geom.Size{Width: int(g.Width), Height: int(g.Height)},
		BorderWidth: int(g.BorderWidth),
	}, nil
}

// CreateWindow creates an InputOutput child of parent. The value list is
// ordered by mask bit as the protocol requires.
func (c *Connection) CreateWindow(parent wm.Window, spec wm.WindowSpec) (wm.Window, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask)
	values := []uint32{spec.Background, spec.BorderColor, eventMask(spec.Events)}
	if cur, ok := c.cursors[spec.Cursor]; ok && spec.Cursor != wm.CursorDefault {
		mask |= xproto.CwCursor
		values = append(values, uint32(cur))
	}

	err = xproto.CreateWindowChecked(conn,
		xproto.WindowClassCopyFromParent,
		wid, xproto.Window(parent),
		int16(spec.Pos.X), int16(spec.Pos.Y),
		dim(spec.Size.Width), dim(spec.Size.Height),
		uint16(max(spec.BorderWidth, 0)),
		xproto.WindowClassInputOutput,
		c.XUtil.Screen().RootVisual,
		mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	return wm.Window(wid), nil
}

func eventMask(m wm.EventMask) uint32 {
	var out uint32
	if m&wm.EventSubstructure != 0 {
		out |= xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify
	}
	if m&wm.EventExposure != 0 {
		out |= xproto.EventMaskExposure
	}
	return out
}

// dim clamps a dimension to the protocol range; zero-sized windows are invalid.
func dim(v int) uint16 {
	switch {
	case v < 1:
		return 1
	case v > 0xffff:
		return 0xffff
	}
	return uint16(v)
}

func (c *Connection) DestroyWindow(w wm.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), xproto.Window(w)).Check()
}

func (c *Connection) Reparent(w, parent wm.Window, pos geom.Position) error {
	return xproto.ReparentWindowChecked(c.XUtil.Conn(), xproto.Window(w), xproto.Window(parent),
		int16(pos.X), int16(pos.Y)).Check()
}

func (c *Connection) Map(w wm.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), xproto.Window(w)).Check()
}

func (c *Connection) Unmap(w wm.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), xproto.Window(w)).Check()
}

// Raise puts w on top of its siblings.
func (c *Connection) Raise(w wm.Window) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), xproto.Window(w),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// Move is sent unchecked; it runs once per pointer motion during a drag and
// failures arrive through the error handler.
func (c *Connection) Move(w wm.Window, pos geom.Position) error {
	xwindow.New(c.XUtil, xproto.Window(w)).Move(pos.X, pos.Y)
	return nil
}

// Configure applies the fields of ch named in its mask.
func (c *Connection) Configure(w wm.Window, ch wm.Changes) error {
	mask, values := configureValues(ch)
	if mask == 0 {
		return nil
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), xproto.Window(w), mask, values).Check()
}

// configureValues builds a ConfigureWindow value list. wm.ConfigMask bits
// match the protocol, so values are appended in bit order.
func configureValues(ch wm.Changes) (uint16, []uint32) {
	var values []uint32
	if ch.Mask&wm.ConfigX != 0 {
		values = append(values, uint32(int32(ch.Pos.X)))
	}
	if ch.Mask&wm.ConfigY != 0 {
		values = append(values, uint32(int32(ch.Pos.Y)))
	}
	if ch.Mask&wm.ConfigWidth != 0 {
		values = append(values, uint32(dim(ch.Size.Width)))
	}
	if ch.Mask&wm.ConfigHeight != 0 {
		values = append(values, uint32(dim(ch.Size.Height)))
	}
	if ch.Mask&wm.ConfigBorderWidth != 0 {
		values = append(values, uint32(max(ch.BorderWidth, 0)))
	}
	if ch.Mask&wm.ConfigSibling != 0 {
		values = append(values, uint32(ch.Sibling))
	}
	if ch.Mask&wm.ConfigStackMode != 0 {
		values = append(values, uint32(ch.StackMode))
	}
	return uint16(ch.Mask), values
}

func (c *Connection) Focus(w wm.Window) error {
	return xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(w), xproto.TimeCurrentTime).Check()
}

// SetColors changes w's background and border pixels and repaints it.
func (c *Connection) SetColors(w wm.Window, background, border uint32) error {
	win := xwindow.New(c.XUtil, xproto.Window(w))
	win.Change(xproto.CwBackPixel|xproto.CwBorderPixel, background, border)
	return xproto.ClearAreaChecked(c.XUtil.Conn(), true, xproto.Window(w), 0, 0, 0, 0).Check()
}

func (c *Connection) AddToSaveSet(w wm.Window) error {
	return xproto.ChangeSaveSetChecked(c.XUtil.Conn(), xproto.SetModeInsert, xproto.Window(w)).Check()
}

func (c *Connection) RemoveFromSaveSet(w wm.Window) error {
	return xproto.ChangeSaveSetChecked(c.XUtil.Conn(), xproto.SetModeDelete, xproto.Window(w)).Check()
}
