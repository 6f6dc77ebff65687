package wm

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/framewm/internal/geom"
)

// Window is an opaque window handle owned by the windowing server.
type Window uint32

// Atom is an interned server-side name.
type Atom uint32

// Keycode identifies a physical key.
type Keycode uint8

// Button identifies a pointer button.
type Button uint8

const (
	Button1 Button = 1
	Button2 Button = 2
	Button3 Button = 3
)

// ModMask is a modifier/button state bitmask. Values match the X11 core protocol.
type ModMask uint16

const (
	ModShift   ModMask = 1 << 0
	ModLock    ModMask = 1 << 1
	ModControl ModMask = 1 << 2
	Mod1       ModMask = 1 << 3
	Mod2       ModMask = 1 << 4
	Mod3       ModMask = 1 << 5
	Mod4       ModMask = 1 << 6
	Mod5       ModMask = 1 << 7

	Button1Mask ModMask = 1 << 8
	Button2Mask ModMask = 1 << 9
	Button3Mask ModMask = 1 << 10
)

// lockMods are ignored when matching bindings (caps lock, num lock).
const lockMods = ModLock | Mod2

// keyMods is the subset of a state mask that names keyboard modifiers.
const keyMods = ModShift | ModLock | ModControl | Mod1 | Mod2 | Mod3 | Mod4 | Mod5

// ButtonMask returns the state bit reported while b is held.
func (b Button) ButtonMask() ModMask {
	if b < Button1 || b > 5 {
		return 0
	}
	return ModMask(1 << (7 + uint(b)))
}

// ConfigMask selects the fields of Changes that are applied. Values match
// the X11 ConfigureWindow value mask.
type ConfigMask uint16

const (
	ConfigX           ConfigMask = 1 << 0
	ConfigY           ConfigMask = 1 << 1
	ConfigWidth       ConfigMask = 1 << 2
	ConfigHeight      ConfigMask = 1 << 3
	ConfigBorderWidth ConfigMask = 1 << 4
	ConfigSibling     ConfigMask = 1 << 5
	ConfigStackMode   ConfigMask = 1 << 6
)

// StackMode is the restacking operation of a configure request.
type StackMode uint8

const (
	StackAbove StackMode = iota
	StackBelow
	StackTopIf
	StackBottomIf
	StackOpposite
)

// Changes is a partial geometry/stacking update. Only fields named in Mask
// are meaningful.
type Changes struct {
	Mask        ConfigMask
	Pos         geom.Position
	Size        geom.Size
	BorderWidth int
	Sibling     Window
	StackMode   StackMode
}

func (c Changes) String() string {
	return fmt.Sprintf("mask=%s pos=%s size=%s border=%d", c.Mask, c.Pos, c.Size, c.BorderWidth)
}

func (m ConfigMask) String() string {
	names := []struct {
		bit  ConfigMask
		name string
	}{
		{ConfigX, "X"},
		{ConfigY, "Y"},
		{ConfigWidth, "Width"},
		{ConfigHeight, "Height"},
		{ConfigBorderWidth, "BorderWidth"},
		{ConfigSibling, "Sibling"},
		{ConfigStackMode, "StackMode"},
	}
	out := ""
	for _, n := range names {
		if m&n.bit == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n.name
	}
	if out == "" {
		return "none"
	}
	return out
}

// EventMask selects which events the server reports for a window.
type EventMask uint32

const (
	EventSubstructure EventMask = 1 << iota
	EventExposure
)

// Cursor names a server cursor shape.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorMove
)

// WindowSpec describes a decoration window to create.
type WindowSpec struct {
	Pos         geom.Position
	Size        geom.Size
	BorderWidth int
	BorderColor uint32
	Background  uint32
	Events      EventMask
	Cursor      Cursor
}

// Attributes is the subset of window attributes the manager consults.
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
}

// Geometry is a window's position and size relative to its parent.
type Geometry struct {
	Pos         geom.Position
	Size        geom.Size
	BorderWidth int
}

// ButtonBinding is a pointer button grab. Motion also selects pointer
// motion while the button is held. Replay lets the press reach the client
// after the manager has seen it.
type ButtonBinding struct {
	Button Button
	Mods   ModMask
	Motion bool
	Replay bool
}

// KeyBinding is a resolved key combination.
type KeyBinding struct {
	Spec  string
	Mods  ModMask
	Codes []Keycode
}

// Matches reports whether a key event with the given keycode and state
// triggers the binding. Lock modifiers are ignored.
func (k KeyBinding) Matches(code Keycode, state ModMask) bool {
	if len(k.Codes) == 0 {
		return false
	}
	if state&keyMods&^lockMods != k.Mods&^lockMods {
		return false
	}
	for _, c := range k.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// ClientMessage is a 32-bit format client message.
type ClientMessage struct {
	Window Window
	Type   Atom
	Data   [5]uint32
}

// ServerError is a failure reported asynchronously for an earlier request.
type ServerError struct {
	Name     string
	Code     uint8
	Request  string
	Major    uint8
	Minor    uint16
	Resource uint32
	Sequence uint16
}

// CodeBadWindow is the protocol error code for a nonexistent window.
const CodeBadWindow uint8 = 3

func (e *ServerError) Error() string {
	return fmt.Sprintf("X error %s (code %d) on request %s (major %d, minor %d), resource 0x%x, sequence %d",
		e.Name, e.Code, e.Request, e.Major, e.Minor, e.Resource, e.Sequence)
}

var (
	// ErrAnotherWM is returned by ClaimRoot when another manager already
	// selected substructure redirection on the root window.
	ErrAnotherWM = errors.New("another window manager is already running")
	// ErrClosed is returned by NextEvent once the connection is gone.
	ErrClosed = errors.New("windowing service closed")
)

// Service is the windowing server as seen by the manager.
type Service interface {
	Root() Window
	ClaimRoot() error
	GrabServer() error
	UngrabServer() error
	Children(w Window) ([]Window, error)

	Attributes(w Window) (Attributes, error)
	Geometry(w Window) (Geometry, error)
	CreateWindow(parent Window, spec WindowSpec) (Window, error)
	DestroyWindow(w Window) error
	Reparent(w, parent Window, pos geom.Position) error
	Map(w Window) error
	Unmap(w Window) error
	Raise(w Window) error
	Move(w Window, pos geom.Position) error
	Configure(w Window, changes Changes) error
	Focus(w Window) error
	SetColors(w Window, background, border uint32) error

	AddToSaveSet(w Window) error
	RemoveFromSaveSet(w Window) error

	ResolveKey(spec string) (KeyBinding, error)
	GrabKey(w Window, key KeyBinding) error
	GrabButton(w Window, b ButtonBinding) error

	Protocols(w Window) ([]string, error)
	Atom(name string) (Atom, error)
	SendClientMessage(msg ClientMessage) error
	Kill(w Window) error

	WindowName(w Window) (string, error)
	DrawTitle(w Window, text string, fg, bg uint32) error
	DrawCloseGlyph(w Window, fg, bg uint32) error
	SetClientList(ws []Window) error
	SetActive(w Window) error

	NextEvent(ctx context.Context) (Event, error)
	SetErrorHandler(fn func(*ServerError))
	Close()
}
