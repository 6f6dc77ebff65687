// Package geom holds the small value types used for window placement.
package geom

import "fmt"

// Position is a point in root or window coordinates.
type Position struct {
	X int
	Y int
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Vector2D is the difference between two positions.
type Vector2D struct {
	X int
	Y int
}

// Rect is a positioned size.
type Rect struct {
	Position
	Size
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }
func (s Size) String() string     { return fmt.Sprintf("%dx%d", s.Width, s.Height) }
func (v Vector2D) String() string { return fmt.Sprintf("[%d, %d]", v.X, v.Y) }
func (r Rect) String() string     { return fmt.Sprintf("%s@%s", r.Size, r.Position) }

// Sub returns the vector from o to p.
func (p Position) Sub(o Position) Vector2D {
	return Vector2D{X: p.X - o.X, Y: p.Y - o.Y}
}

// Add translates p by v.
func (p Position) Add(v Vector2D) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// Add grows s by v.
func (s Size) Add(v Vector2D) Size {
	return Size{Width: s.Width + v.X, Height: s.Height + v.Y}
}

// Clamp raises each dimension of s to at least min.
func (s Size) Clamp(min Size) Size {
	if s.Width < min.Width {
		s.Width = min.Width
	}
	if s.Height < min.Height {
		s.Height = min.Height
	}
	return s
}

// Contains reports whether p lies inside a box of size s anchored at the origin.
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}
