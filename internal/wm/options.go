package wm

import "github.com/1broseidon/framewm/internal/geom"

// Colors are 24-bit RGB pixel values.
type Colors struct {
	Border      uint32
	Frame       uint32
	Titlebar    uint32
	CloseButton uint32
	CloseGlyph  uint32
	TitleText   uint32
}

// Options controls decoration and interaction behaviour.
type Options struct {
	TitlebarHeight int
	BorderWidth    int
	Colors         Colors

	EnableTitlebarCloseButton bool
	ShowTitle                 bool
	DragRequiresModifier      bool
	DragModifier              ModMask
	EnableResize              bool
	GracefulCloseEnabled      bool

	CloseKey string
	CycleKey string

	MinSize geom.Size
}

// DefaultOptions mirrors the built-in configuration.
func DefaultOptions() Options {
	return Options{
		TitlebarHeight: 20,
		BorderWidth:    1,
		Colors: Colors{
			Border:      0xff0000,
			Frame:       0x3b414a,
			Titlebar:    0x646375,
			CloseButton: 0xff0000,
			CloseGlyph:  0xffffff,
			TitleText:   0xffffff,
		},
		EnableTitlebarCloseButton: true,
		ShowTitle:                 true,
		DragModifier:              Mod1,
		EnableResize:              true,
		GracefulCloseEnabled:      true,
		CloseKey:                  "Mod1-F4",
		CycleKey:                  "Mod1-Tab",
		MinSize:                   geom.Size{Width: 60, Height: 40},
	}
}

// minFrameSize is the smallest frame that still fits the titlebar and the
// close affordance.
func (o Options) minFrameSize() geom.Size {
	min := o.MinSize
	if w := 2 * o.TitlebarHeight; min.Width < w {
		min.Width = w
	}
	if h := o.TitlebarHeight + 1; min.Height < h {
		min.Height = h
	}
	return min
}
