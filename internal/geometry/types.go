// Package geometry maps crop and overlay geometry between the on-screen editing
// surface, the asset's true pixel space and the unit square the backend expects.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Point represents a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// Scale returns the rectangle with every coordinate multiplied by factor.
func (r Rect) Scale(factor float64) Rect {
	return Rect{X: r.X * factor, Y: r.Y * factor, Width: r.Width * factor, Height: r.Height * factor}
}

// EqualApprox reports whether both rectangles match coordinate by coordinate within tol.
func (r Rect) EqualApprox(other Rect, tol float64) bool {
	return scalar.EqualWithinAbs(r.X, other.X, tol) &&
		scalar.EqualWithinAbs(r.Y, other.Y, tol) &&
		scalar.EqualWithinAbs(r.Width, other.Width, tol) &&
		scalar.EqualWithinAbs(r.Height, other.Height, tol)
}

// Size is an asset's pixel dimensions.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Valid reports whether both dimensions are finite and positive.
func (s Size) Valid() bool {
	return positive(s.Width) && positive(s.Height)
}

// Frame returns the rectangle covering the whole size.
func (s Size) Frame() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
