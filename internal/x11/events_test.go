package x11

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   xgb.Event
		want wm.Event
	}{
		{
			name: "map request",
			in:   xproto.MapRequestEvent{Parent: 1, Window: 0x200},
			want: wm.MapRequest{Parent: 1, Window: 0x200},
		},
		{
			name: "unmap notify keeps event window",
			in:   xproto.UnmapNotifyEvent{Event: 1, Window: 0x200},
			want: wm.UnmapNotify{Event: 1, Window: 0x200},
		},
		{
			name: "destroy notify",
			in:   xproto.DestroyNotifyEvent{Event: 0x400001, Window: 0x200},
			want: wm.DestroyNotify{Event: 0x400001, Window: 0x200},
		},
		{
			name: "configure request with negative position",
			in: xproto.ConfigureRequestEvent{
				StackMode: xproto.StackModeBelow,
				Parent:    1,
				Window:    0x200,
				Sibling:   0x300,
				X:         -10,
				Y:         20,
				Width:     640,
				Height:    480,
				ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowWidth | xproto.ConfigWindowStackMode,
			},
			want: wm.ConfigureRequest{
				Parent: 1,
				Window: 0x200,
				Changes: wm.Changes{
					Mask:      wm.ConfigX | wm.ConfigWidth | wm.ConfigStackMode,
					Pos:       geom.Position{X: -10, Y: 20},
					Size:      geom.Size{Width: 640, Height: 480},
					Sibling:   0x300,
					StackMode: wm.StackBelow,
				},
			},
		},
		{
			name: "button press uses the grab window",
			in: xproto.ButtonPressEvent{
				Detail: 1, Root: 1, Event: 0x400002, Child: 0x400003,
				RootX: 300, RootY: 40, EventX: 12, EventY: 7,
				State: xproto.ModMask1 | xproto.ModMaskLock,
			},
			want: wm.ButtonPress{
				Window: 0x400002,
				Child:  0x400003,
				Button: wm.Button1,
				State:  wm.Mod1 | wm.ModLock,
				Root:   geom.Position{X: 300, Y: 40},
				Pos:    geom.Position{X: 12, Y: 7},
			},
		},
		{
			name: "button release",
			in:   xproto.ButtonReleaseEvent{Detail: 3, Event: 0x200, Child: 0x300, RootX: 5, RootY: 6, EventX: 1, EventY: 2},
			want: wm.ButtonRelease{Window: 0x200, Child: 0x300, Button: wm.Button3, Root: geom.Position{X: 5, Y: 6}, Pos: geom.Position{X: 1, Y: 2}},
		},
		{
			name: "motion notify",
			in:   xproto.MotionNotifyEvent{Event: 0x400002, RootX: 100, RootY: 90, State: xproto.KeyButMaskButton1},
			want: wm.MotionNotify{Window: 0x400002, State: wm.Button1Mask, Root: geom.Position{X: 100, Y: 90}},
		},
		{
			name: "key press",
			in:   xproto.KeyPressEvent{Detail: 70, Event: 0x400001, State: xproto.ModMask1},
			want: wm.KeyPress{Window: 0x400001, Keycode: 70, State: wm.Mod1},
		},
		{
			name: "expose",
			in:   xproto.ExposeEvent{Window: 0x400002, Count: 2},
			want: wm.Expose{Window: 0x400002, Count: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in)
			if !ok {
				t.Fatalf("translate(%T) not handled", tt.in)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("translate() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTranslateIgnoresUnknownEvents(t *testing.T) {
	for _, ev := range []xgb.Event{
		xproto.EnterNotifyEvent{Event: 0x200},
		xproto.PropertyNotifyEvent{Window: 0x200},
		xproto.MappingNotifyEvent{},
	} {
		if got, ok := translate(ev); ok {
			t.Fatalf("translate(%T) = %#v, want ignored", ev, got)
		}
	}
}

func TestConfigureValuesFollowMaskOrder(t *testing.T) {
	mask, values := configureValues(wm.Changes{
		Mask:        wm.ConfigX | wm.ConfigHeight | wm.ConfigBorderWidth | wm.ConfigStackMode,
		Pos:         geom.Position{X: -5, Y: 99},
		Size:        geom.Size{Width: 10, Height: 220},
		BorderWidth: 2,
		StackMode:   wm.StackAbove,
	})

	wantMask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth | xproto.ConfigWindowStackMode)
	if mask != wantMask {
		t.Fatalf("mask = %#x, want %#x", mask, wantMask)
	}
	want := []uint32{uint32(0xfffffffb), 220, 2, xproto.StackModeAbove}
	if !reflect.DeepEqual(values, want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
}

func TestConfigureValuesEmptyMask(t *testing.T) {
	mask, values := configureValues(wm.Changes{Pos: geom.Position{X: 1}})
	if mask != 0 || len(values) != 0 {
		t.Fatalf("configureValues() = %#x %v, want nothing", mask, values)
	}
}

func TestDimClampsToProtocolRange(t *testing.T) {
	tests := []struct {
		in   int
		want uint16
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{640, 640},
		{70000, 0xffff},
	}
	for _, tt := range tests {
		if got := dim(tt.in); got != tt.want {
			t.Fatalf("dim(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEventMask(t *testing.T) {
	got := eventMask(wm.EventSubstructure | wm.EventExposure)
	want := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify | xproto.EventMaskExposure)
	if got != want {
		t.Fatalf("eventMask() = %#x, want %#x", got, want)
	}
	if got := eventMask(0); got != 0 {
		t.Fatalf("eventMask(0) = %#x, want 0", got)
	}
}
