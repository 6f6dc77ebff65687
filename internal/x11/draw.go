package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/wm"
)

const titlePaddingX = 6

// initDrawing opens a core font and the graphics context shared by every
// decoration window.
func (c *Connection) initDrawing() error {
	conn := c.XUtil.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate font id: %w", err)
	}
	fontNames := []string{"fixed", "9x15", "8x13", "6x13"}
	opened := false
	for _, name := range fontNames {
		if err = xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("failed to open a core font: %w", err)
	}

	if info, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply(); err == nil {
		c.ascent = int(info.FontAscent)
		c.descent = int(info.FontDescent)
	} else {
		c.ascent, c.descent = 11, 2
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to allocate graphics context id: %w", err)
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(c.root),
		xproto.GcForeground|xproto.GcBackground|xproto.GcLineWidth|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			0xffffff,     // foreground
			0,            // background
			2,            // line_width
			uint32(font), // font
			0,            // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to create graphics context: %w", err)
	}

	c.font = font
	c.gc = gc
	return nil
}

func (c *Connection) setInk(fg, bg uint32) {
	xproto.ChangeGC(c.XUtil.Conn(), c.gc, xproto.GcForeground|xproto.GcBackground, []uint32{fg, bg})
}

// DrawTitle repaints a titlebar with text vertically centered.
func (c *Connection) DrawTitle(w wm.Window, text string, fg, bg uint32) error {
	g, err := c.Geometry(w)
	if err != nil {
		return err
	}
	conn := c.XUtil.Conn()
	win := xproto.Window(w)

	c.setInk(fg, bg)
	if err := xproto.ClearAreaChecked(conn, false, win, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to clear titlebar: %w", err)
	}

	line := latin1(text)
	if line == "" {
		return nil
	}
	baseline := (g.Size.Height + c.ascent - c.descent) / 2
	return xproto.ImageText8Checked(
		conn,
		byte(len(line)),
		xproto.Drawable(win),
		c.gc,
		int16(titlePaddingX),
		int16(baseline),
		line,
	).Check()
}

// DrawCloseGlyph paints an X across the middle half of a close button.
func (c *Connection) DrawCloseGlyph(w wm.Window, fg, bg uint32) error {
	g, err := c.Geometry(w)
	if err != nil {
		return err
	}
	conn := c.XUtil.Conn()
	win := xproto.Window(w)

	c.setInk(fg, bg)
	if err := xproto.ClearAreaChecked(conn, false, win, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to clear close button: %w", err)
	}
	return xproto.PolySegmentChecked(conn, xproto.Drawable(win), c.gc, glyphSegments(g.Size.Width, g.Size.Height)).Check()
}

func glyphSegments(width, height int) []xproto.Segment {
	x0, y0 := int16(width/4), int16(height/4)
	x1, y1 := int16(width-width/4-1), int16(height-height/4-1)
	return []xproto.Segment{
		{X1: x0, Y1: y0, X2: x1, Y2: y1},
		{X1: x0, Y1: y1, X2: x1, Y2: y0},
	}
}

// latin1 maps text onto the single-byte encoding of core fonts, replacing
// anything outside it, and truncates to the ImageText8 limit.
func latin1(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if len(out) == 255 {
			break
		}
		if r > 0xff || r < 0x20 {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return string(out)
}
