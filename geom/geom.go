// Package geom provides the float64 screen geometry used by the
// addressing engine: points, rectangles, and the few predicates the
// resolver and scanner need.
package geom

import "math"

// Point is a position in screen space (or intra-media space, where the
// caller says so).
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle. W and H are never negative in a
// well-formed rect.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p falls inside r. All four edges are
// inclusive: a point exactly on the border counts as contained.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle covering both r and o. An empty
// rect is treated as absent.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AnyContains reports whether any rectangle in rs contains p.
func AnyContains(rs []Rect, p Point) bool {
	for _, r := range rs {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Bounds returns the union of all rectangles in rs.
func Bounds(rs []Rect) Rect {
	var b Rect
	for _, r := range rs {
		b = b.Union(r)
	}
	return b
}
