// Package screen describes displays and the point-based geometry shared by
// the strip, the capture pipeline, and the overlay placement policy.
package screen

import "math"

// Point is a position in display points.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in display points.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Union returns the smallest rectangle containing both r and other. An empty
// rectangle is treated as the identity.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: x, Y: y, Width: maxX - x, Height: maxY - y}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// PixelWidth converts a point width to pixels at the given backing scale.
func PixelWidth(points, scale float64) int {
	return int(math.Round(points * scale))
}

// Display describes one attached display.
type Display struct {
	ID          string
	Bounds      Rect
	Scale       float64
	StripHeight float64
}

// StripFrame returns the frame of the display's status strip: a band of
// StripHeight points along the top edge of the display bounds.
func (d Display) StripFrame() Rect {
	return Rect{X: d.Bounds.X, Y: d.Bounds.Y, Width: d.Bounds.Width, Height: d.StripHeight}
}

// Source enumerates displays and reports pointer/space state. Implementations
// wrap the windowing environment; tests use scripted fakes.
type Source interface {
	Displays() []Display
	Main() (Display, bool)
	PointerPosition() (Point, bool)
	ActiveSpaceFullScreen() bool
}

// BestDisplay picks the display the overlay should appear on. The ordering is
// a heuristic, not an invariant: the pointer's display when the active space
// is full-screen, otherwise the main display, otherwise the first known
// display.
func BestDisplay(src Source) (Display, bool) {
	if src == nil {
		return Display{}, false
	}
	if src.ActiveSpaceFullScreen() {
		if p, ok := src.PointerPosition(); ok {
			for _, d := range src.Displays() {
				if d.Bounds.Contains(p) {
					return d, true
				}
			}
		}
	}
	if d, ok := src.Main(); ok {
		return d, true
	}
	if all := src.Displays(); len(all) > 0 {
		return all[0], true
	}
	return Display{}, false
}
