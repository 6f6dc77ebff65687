package wm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/testutil"
	"github.com/1broseidon/framewm/internal/wm"
)

func pos(x, y int) geom.Position { return geom.Position{X: x, Y: y} }

func lastMove(t *testing.T, calls []testutil.Call, w wm.Window) geom.Position {
	t.Helper()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Window == w {
			return calls[i].Arg.(geom.Position)
		}
	}
	t.Fatalf("no Move recorded for 0x%x", w)
	return geom.Position{}
}

func TestTitlebarDragMovesFrame(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))
	srv.Reset()

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, Root: pos(100, 100), Pos: pos(50, 10)})
	require.Equal(t, wm.PhaseDragging, m.Phase())
	s, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, pos(50, 50), s.AnchorFramePos)
	assert.Equal(t, geom.Size{Width: 300, Height: 220}, s.AnchorFrameSize)
	assert.Equal(t, 1, srv.Count("Raise"))

	m.Dispatch(wm.MotionNotify{Window: c.Titlebar, State: wm.Button1Mask, Root: pos(130, 90)})
	assert.Equal(t, pos(80, 40), lastMove(t, srv.Calls("Move"), c.Frame))

	// Every motion is relative to the anchor, so revisiting a point lands
	// on the same position.
	for _, p := range []geom.Position{pos(400, 300), pos(-20, 7), pos(131, 91), pos(130, 90)} {
		m.Dispatch(wm.MotionNotify{Window: c.Titlebar, State: wm.Button1Mask, Root: p})
	}
	assert.Equal(t, pos(80, 40), lastMove(t, srv.Calls("Move"), c.Frame))
	assert.Equal(t, pos(80, 40), srv.Window(c.Frame).Pos)

	m.Dispatch(wm.ButtonRelease{Window: c.Titlebar, Button: wm.Button1, Root: pos(130, 90)})
	assert.Equal(t, wm.PhaseIdle, m.Phase())

	moves := srv.Count("Move")
	m.Dispatch(wm.MotionNotify{Window: c.Titlebar, State: wm.Button1Mask, Root: pos(200, 200)})
	assert.Equal(t, moves, srv.Count("Move"), "motion after release must not move the frame")
}

func TestMotionWithoutButtonHeldIsIgnored(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, Root: pos(100, 100)})
	srv.Reset()
	m.Dispatch(wm.MotionNotify{Window: c.Titlebar, Root: pos(130, 90)})
	assert.Zero(t, srv.Count("Move"))
}

func TestPressOnClientOnlyRaises(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))
	srv.Reset()

	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button1, Root: pos(100, 100)})

	assert.Equal(t, wm.PhaseIdle, m.Phase())
	raises := srv.Calls("Raise")
	require.Len(t, raises, 1)
	assert.Equal(t, c.Frame, raises[0].Window)
	assert.Equal(t, 1, srv.Count("Focus"))
	assert.Equal(t, 1, srv.Count("SetActive"))
}

func TestPressRefocusesFocusedClient(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))
	srv.Reset()

	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button1, Root: pos(100, 100)})
	m.Dispatch(wm.ButtonRelease{Window: c.TopLevel, Button: wm.Button1, Root: pos(100, 100)})
	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button1, Root: pos(100, 100)})

	focus := srv.Calls("Focus")
	require.Len(t, focus, 2)
	assert.Equal(t, c.TopLevel, focus[1].Window)
	assert.Equal(t, 1, srv.Count("SetActive"))
}

func TestModifierDragOnClientArea(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button1, State: wm.Mod1, Root: pos(10, 10)})
	require.Equal(t, wm.PhaseDragging, m.Phase())

	m.Dispatch(wm.MotionNotify{Window: c.TopLevel, State: wm.Mod1 | wm.Button1Mask, Root: pos(15, 30)})
	assert.Equal(t, pos(55, 70), srv.Window(c.Frame).Pos)
}

func TestDragRequiresModifier(t *testing.T) {
	opts := wm.DefaultOptions()
	opts.DragRequiresModifier = true
	m, srv := newManager(t, opts)
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	for _, call := range srv.Calls("GrabButton") {
		if call.Window == c.Titlebar {
			assert.Equal(t, wm.Mod1, call.Arg.(wm.ButtonBinding).Mods)
		}
	}

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, Root: pos(100, 100)})
	assert.Equal(t, wm.PhaseIdle, m.Phase())

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, State: wm.Mod1 | wm.ModLock, Root: pos(100, 100)})
	assert.Equal(t, wm.PhaseDragging, m.Phase())
}

func TestResizeDrag(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button3, State: wm.Mod1, Root: pos(200, 200)})
	s, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, wm.DragResize, s.Mode)

	m.Dispatch(wm.MotionNotify{Window: c.TopLevel, State: wm.Mod1 | wm.Button3Mask, Root: pos(250, 180)})
	assert.Equal(t, geom.Size{Width: 350, Height: 200}, srv.Window(c.Frame).Size)
	assert.Equal(t, geom.Size{Width: 350, Height: 180}, srv.Window(c.TopLevel).Size)
	assert.Equal(t, 350, srv.Window(c.Titlebar).Size.Width)
	assert.Equal(t, pos(330, 0), srv.Window(c.CloseAffordance).Pos)
	assert.Equal(t, pos(50, 50), srv.Window(c.Frame).Pos)

	m.Dispatch(wm.MotionNotify{Window: c.TopLevel, State: wm.Mod1 | wm.Button3Mask, Root: pos(-500, -500)})
	assert.Equal(t, geom.Size{Width: 60, Height: 40}, srv.Window(c.Frame).Size)

	m.Dispatch(wm.ButtonRelease{Window: c.TopLevel, Button: wm.Button3})
	assert.Equal(t, wm.PhaseIdle, m.Phase())
}

func TestResizeDisabled(t *testing.T) {
	opts := wm.DefaultOptions()
	opts.EnableResize = false
	m, srv := newManager(t, opts)
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	m.Dispatch(wm.ButtonPress{Window: c.TopLevel, Button: wm.Button3, State: wm.Mod1, Root: pos(200, 200)})
	assert.Equal(t, wm.PhaseIdle, m.Phase())
}

func TestDragSessionDroppedWhenClientGoes(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, Root: pos(100, 100)})
	m.Dispatch(wm.UnmapNotify{Event: c.Frame, Window: c.TopLevel})
	assert.Equal(t, wm.PhaseIdle, m.Phase())

	srv.Reset()
	m.Dispatch(wm.MotionNotify{Window: c.Titlebar, State: wm.Button1Mask, Root: pos(130, 90)})
	assert.Zero(t, srv.Count("Move"))
}

func TestDragGeometryFailureStaysIdle(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	c := manage(t, m, srv, 0x100, rect(50, 50, 300, 200))
	srv.Fail["Geometry"] = assert.AnError

	m.Dispatch(wm.ButtonPress{Window: c.Titlebar, Button: wm.Button1, Root: pos(100, 100)})
	assert.Equal(t, wm.PhaseIdle, m.Phase())
}

func TestPressOnUnmanagedWindow(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	m.Dispatch(wm.ButtonPress{Window: 0x999, Button: wm.Button1})
	assert.Zero(t, srv.Count("Raise"))
	assert.Equal(t, wm.PhaseIdle, m.Phase())
}

func TestCycleKeyFocusesNextClient(t *testing.T) {
	m, srv := newManager(t, wm.DefaultOptions())
	a := manage(t, m, srv, 0x100, rect(0, 0, 100, 100))
	b := manage(t, m, srv, 0x200, rect(0, 0, 100, 100))

	m.Dispatch(wm.ButtonPress{Window: a.TopLevel, Button: wm.Button1})
	srv.Reset()

	tab := wm.KeyPress{Window: a.Frame, Keycode: testutil.KeycodeTab, State: wm.Mod1}
	m.Dispatch(tab)
	focus := srv.Calls("Focus")
	require.Len(t, focus, 1)
	assert.Equal(t, b.TopLevel, focus[0].Window)

	m.Dispatch(tab)
	focus = srv.Calls("Focus")
	require.Len(t, focus, 2)
	assert.Equal(t, a.TopLevel, focus[1].Window)
}
