// Package testutil provides an in-memory windowing server for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

const RootWindow wm.Window = 1

// FakeWindow is the server-side state of one window.
type FakeWindow struct {
	ID               wm.Window
	Parent           wm.Window
	Pos              geom.Position
	Size             geom.Size
	BorderWidth      int
	Background       uint32
	BorderColor      uint32
	Mapped           bool
	OverrideRedirect bool
	Name             string
	Protocols        []string
	InSaveSet        bool
	Destroyed        bool
}

// Call is one recorded Service invocation.
type Call struct {
	Op     string
	Window wm.Window
	Arg    any
}

// FakeServer implements wm.Service in memory and records every request.
type FakeServer struct {
	mu      sync.Mutex
	windows map[wm.Window]*FakeWindow
	order   []wm.Window
	nextID  wm.Window
	atoms   map[string]wm.Atom
	calls   []Call

	events chan wm.Event
	onErr  func(*wm.ServerError)

	// ClaimErr is returned by ClaimRoot.
	ClaimErr error
	// Fail maps an operation name to the error it returns.
	Fail map[string]error
}

var _ wm.Service = (*FakeServer)(nil)

// NewFakeServer returns a server with only the root window.
func NewFakeServer() *FakeServer {
	s := &FakeServer{
		windows: make(map[wm.Window]*FakeWindow),
		nextID:  0x400000,
		atoms:   map[string]wm.Atom{},
		events:  make(chan wm.Event, 64),
		Fail:    map[string]error{},
	}
	s.windows[RootWindow] = &FakeWindow{ID: RootWindow, Size: geom.Size{Width: 1920, Height: 1080}, Mapped: true}
	return s
}

// AddWindow creates an application window directly under the root.
func (s *FakeServer) AddWindow(id wm.Window, bounds geom.Rect, mapped bool) *FakeWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &FakeWindow{ID: id, Parent: RootWindow, Pos: bounds.Position, Size: bounds.Size, Mapped: mapped}
	s.windows[id] = w
	s.order = append(s.order, id)
	return w
}

// Window returns the state of id, or nil.
func (s *FakeServer) Window(id wm.Window) *FakeWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows[id]
}

// Push queues events for NextEvent.
func (s *FakeServer) Push(evs ...wm.Event) {
	for _, ev := range evs {
		s.events <- ev
	}
}

// Hangup makes NextEvent return wm.ErrClosed once queued events drain.
func (s *FakeServer) Hangup() { close(s.events) }

// RaiseError delivers err to the installed error handler.
func (s *FakeServer) RaiseError(err *wm.ServerError) {
	s.mu.Lock()
	fn := s.onErr
	s.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// Calls returns every recorded call, optionally filtered by operation.
func (s *FakeServer) Calls(ops ...string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ops) == 0 {
		return append([]Call(nil), s.calls...)
	}
	var out []Call
	for _, c := range s.calls {
		for _, op := range ops {
			if c.Op == op {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Count returns how many times op was called.
func (s *FakeServer) Count(op string) int { return len(s.Calls(op)) }

// Reset forgets recorded calls.
func (s *FakeServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Vanish destroys id without queueing any event, as if the notification was lost.
func (s *FakeServer) Vanish(id wm.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.windows[id] != nil {
		s.destroy(id)
	}
}

// Live returns the ids of windows that have not been destroyed, excluding the root.
func (s *FakeServer) Live() []wm.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []wm.Window
	for _, id := range s.order {
		if w := s.windows[id]; w != nil && !w.Destroyed {
			out = append(out, id)
		}
	}
	return out
}

func (s *FakeServer) record(op string, w wm.Window, arg any) error {
	s.calls = append(s.calls, Call{Op: op, Window: w, Arg: arg})
	if err := s.Fail[op]; err != nil {
		return err
	}
	return nil
}

func (s *FakeServer) lookup(w wm.Window) (*FakeWindow, error) {
	fw, ok := s.windows[w]
	if !ok || fw.Destroyed {
		return nil, &wm.ServerError{Name: "Window", Code: wm.CodeBadWindow, Request: "fake", Resource: uint32(w)}
	}
	return fw, nil
}

func (s *FakeServer) Root() wm.Window { return RootWindow }

func (s *FakeServer) ClaimRoot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "ClaimRoot", Window: RootWindow})
	return s.ClaimErr
}

func (s *FakeServer) GrabServer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("GrabServer", 0, nil)
}

func (s *FakeServer) UngrabServer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("UngrabServer", 0, nil)
}

func (s *FakeServer) Children(parent wm.Window) ([]wm.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Children", parent, nil); err != nil {
		return nil, err
	}
	if _, err := s.lookup(parent); err != nil {
		return nil, err
	}
	var out []wm.Window
	for _, id := range s.order {
		if w := s.windows[id]; w != nil && !w.Destroyed && w.Parent == parent {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *FakeServer) Attributes(w wm.Window) (wm.Attributes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Attributes", w, nil); err != nil {
		return wm.Attributes{}, err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return wm.Attributes{}, err
	}
	return wm.Attributes{OverrideRedirect: fw.OverrideRedirect, Viewable: fw.Mapped}, nil
}

func (s *FakeServer) Geometry(w wm.Window) (wm.Geometry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Geometry", w, nil); err != nil {
		return wm.Geometry{}, err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return wm.Geometry{}, err
	}
	return wm.Geometry{Pos: fw.Pos, Size: fw.Size, BorderWidth: fw.BorderWidth}, nil
}

func (s *FakeServer) CreateWindow(parent wm.Window, spec wm.WindowSpec) (wm.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateWindow", parent, spec); err != nil {
		return 0, err
	}
	if _, err := s.lookup(parent); err != nil {
		return 0, err
	}
	s.nextID++
	id := s.nextID
	s.windows[id] = &FakeWindow{
		ID:          id,
		Parent:      parent,
		Pos:         spec.Pos,
		Size:        spec.Size,
		BorderWidth: spec.BorderWidth,
		Background:  spec.Background,
		BorderColor: spec.BorderColor,
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *FakeServer) DestroyWindow(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DestroyWindow", w, nil); err != nil {
		return err
	}
	if _, err := s.lookup(w); err != nil {
		return err
	}
	s.destroy(w)
	return nil
}

func (s *FakeServer) destroy(w wm.Window) {
	for _, fw := range s.windows {
		if fw.Parent == w && !fw.Destroyed {
			s.destroy(fw.ID)
		}
	}
	s.windows[w].Destroyed = true
	s.windows[w].Mapped = false
}

func (s *FakeServer) Reparent(w, parent wm.Window, pos geom.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Reparent", w, parent); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.Parent = parent
	fw.Pos = pos
	return nil
}

func (s *FakeServer) Map(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Map", w, nil); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.Mapped = true
	return nil
}

func (s *FakeServer) Unmap(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Unmap", w, nil); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.Mapped = false
	return nil
}

func (s *FakeServer) Raise(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("Raise", w, nil)
}

func (s *FakeServer) Move(w wm.Window, pos geom.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Move", w, pos); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.Pos = pos
	return nil
}

func (s *FakeServer) Configure(w wm.Window, c wm.Changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Configure", w, c); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	if c.Mask&wm.ConfigX != 0 {
		fw.Pos.X = c.Pos.X
	}
	if c.Mask&wm.ConfigY != 0 {
		fw.Pos.Y = c.Pos.Y
	}
	if c.Mask&wm.ConfigWidth != 0 {
		fw.Size.Width = c.Size.Width
	}
	if c.Mask&wm.ConfigHeight != 0 {
		fw.Size.Height = c.Size.Height
	}
	if c.Mask&wm.ConfigBorderWidth != 0 {
		fw.BorderWidth = c.BorderWidth
	}
	return nil
}

func (s *FakeServer) Focus(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("Focus", w, nil)
}

func (s *FakeServer) SetColors(w wm.Window, background, border uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SetColors", w, [2]uint32{background, border}); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.Background = background
	fw.BorderColor = border
	return nil
}

func (s *FakeServer) AddToSaveSet(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AddToSaveSet", w, nil); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.InSaveSet = true
	return nil
}

func (s *FakeServer) RemoveFromSaveSet(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RemoveFromSaveSet", w, nil); err != nil {
		return err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return err
	}
	fw.InSaveSet = false
	return nil
}

// Keycodes used by ResolveKey.
const (
	KeycodeTab wm.Keycode = 23
	KeycodeF4  wm.Keycode = 70
)

func (s *FakeServer) ResolveKey(spec string) (wm.KeyBinding, error) {
	kb := wm.KeyBinding{Spec: spec}
	for _, part := range strings.Split(spec, "-") {
		switch strings.ToLower(part) {
		case "shift":
			kb.Mods |= wm.ModShift
		case "control":
			kb.Mods |= wm.ModControl
		case "mod1":
			kb.Mods |= wm.Mod1
		case "mod4":
			kb.Mods |= wm.Mod4
		case "f4":
			kb.Codes = []wm.Keycode{KeycodeF4}
		case "tab":
			kb.Codes = []wm.Keycode{KeycodeTab}
		}
	}
	if len(kb.Codes) == 0 {
		return wm.KeyBinding{}, fmt.Errorf("no keycode in %q", spec)
	}
	return kb, nil
}

func (s *FakeServer) GrabKey(w wm.Window, key wm.KeyBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("GrabKey", w, key)
}

func (s *FakeServer) GrabButton(w wm.Window, b wm.ButtonBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("GrabButton", w, b)
}

func (s *FakeServer) Protocols(w wm.Window) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Protocols", w, nil); err != nil {
		return nil, err
	}
	fw, err := s.lookup(w)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), fw.Protocols...), nil
}

func (s *FakeServer) Atom(name string) (wm.Atom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Atom", 0, name); err != nil {
		return 0, err
	}
	a, ok := s.atoms[name]
	if !ok {
		a = wm.Atom(len(s.atoms) + 100)
		s.atoms[name] = a
	}
	return a, nil
}

// AtomFor returns the atom previously interned for name.
func (s *FakeServer) AtomFor(name string) wm.Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atoms[name]
}

func (s *FakeServer) SendClientMessage(msg wm.ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("SendClientMessage", msg.Window, msg)
}

func (s *FakeServer) Kill(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("Kill", w, nil)
}

func (s *FakeServer) WindowName(w wm.Window) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fw, err := s.lookup(w)
	if err != nil {
		return "", err
	}
	return fw.Name, nil
}

func (s *FakeServer) DrawTitle(w wm.Window, text string, fg, bg uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("DrawTitle", w, text)
}

func (s *FakeServer) DrawCloseGlyph(w wm.Window, fg, bg uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("DrawCloseGlyph", w, nil)
}

func (s *FakeServer) SetClientList(ws []wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("SetClientList", 0, append([]wm.Window(nil), ws...))
}

func (s *FakeServer) SetActive(w wm.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("SetActive", w, nil)
}

func (s *FakeServer) NextEvent(ctx context.Context) (wm.Event, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return nil, wm.ErrClosed
		}
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *FakeServer) SetErrorHandler(fn func(*wm.ServerError)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onErr = fn
}

func (s *FakeServer) Close() {}
