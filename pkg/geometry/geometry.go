// Package geometry provides the rectangle and direction math the
// navigation engine is built on. Rects are axis-aligned bounding boxes
// in host coordinates; the engine never produces geometry, it only
// consumes boxes the host reports.
package geometry

// Point is a position in host coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box. Width and Height are carried
// alongside the edges so hosts can hand over their native box shape
// without recomputation; NewRect and XYWH keep all six consistent.
type Rect struct {
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
	Width  float64
	Height float64
}

// ZeroRect is the zero value rect, used for detached regions.
var ZeroRect = Rect{}

// NewRect creates a rect from its four edges.
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  right,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// XYWH creates a rect from an origin and size.
func XYWH(left, top, width, height float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// Center returns the rect's midpoint.
func (r Rect) Center() Point {
	return Point{
		X: r.Left + r.Width/2,
		Y: r.Top + r.Height/2,
	}
}

// Empty returns true if the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// OverlapsX reports whether the horizontal spans of the two rects
// intersect. Touching edges do not count as overlap.
func (r Rect) OverlapsX(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right
}

// OverlapsY reports whether the vertical spans of the two rects
// intersect. Touching edges do not count as overlap.
func (r Rect) OverlapsY(o Rect) bool {
	return r.Top < o.Bottom && o.Top < r.Bottom
}

// ContainsX reports whether x falls within the rect's horizontal span.
func (r Rect) ContainsX(x float64) bool {
	return x >= r.Left && x <= r.Right
}

// ContainsY reports whether y falls within the rect's vertical span.
func (r Rect) ContainsY(y float64) bool {
	return y >= r.Top && y <= r.Bottom
}

// Direction is one of the four travel directions a navigation command
// can take.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Horizontal returns true for left/right travel.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Opposite returns the reverse travel direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Projection projects the candidate's center onto the axis
// perpendicular to the travel direction, clamped to the current rect's
// extent on that axis. For vertical travel this yields an x-coordinate
// in [current.Left, current.Right]; for horizontal travel a
// y-coordinate in [current.Top, current.Bottom].
func Projection(current, candidate Rect, dir Direction) float64 {
	c := candidate.Center()
	if dir.Horizontal() {
		return clamp(c.Y, current.Top, current.Bottom)
	}
	return clamp(c.X, current.Left, current.Right)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
