// Package placement computes non-overlapping canvas positions for new
// elements. It is pure: it never mutates its inputs and never fails.
package placement

import "math"

// Point is a position in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a box extent in canvas units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Overlaps reports whether two boxes intersect. Two boxes do not overlap
// iff one is entirely to the left, right, above, or below the other.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// Contains reports whether r lies wholly inside bounds.
func Contains(bounds, r Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.W <= bounds.X+bounds.W &&
		r.Y+r.H <= bounds.Y+bounds.H
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// leaves v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint snaps both coordinates.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// Center returns the midpoint of bounds.
func Center(bounds Rect) Point {
	return Point{X: bounds.X + bounds.W/2, Y: bounds.Y + bounds.H/2}
}
