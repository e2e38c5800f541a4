package geometry

import (
	"errors"
	"math"
)

// DefaultDisplayWidth is the reference render width of the adjustment canvas.
const DefaultDisplayWidth = 600

// MinUnitSize is the smallest width or height a unit crop may have.
const MinUnitSize = 0.1

var (
	// ErrInvalidDimensions is returned when the asset size or display width is not positive.
	ErrInvalidDimensions = errors.New("geometry: dimensions must be positive")
	// ErrInvalidRange is returned when a scalar range has no magnitude.
	ErrInvalidRange = errors.New("geometry: range must have a non-zero bound")
)

// displayScale is the single width-based factor shared by both axes.
func displayScale(asset Size, displayWidth float64) (float64, error) {
	if !asset.Valid() || !positive(displayWidth) {
		return 0, ErrInvalidDimensions
	}
	return displayWidth / asset.Width, nil
}

// ToDisplay scales a rectangle in asset pixels into display pixels. Height uses
// the same width-derived factor so the aspect ratio is preserved.
func ToDisplay(r Rect, asset Size, displayWidth float64) (Rect, error) {
	s, err := displayScale(asset, displayWidth)
	if err != nil {
		return Rect{}, err
	}
	return r.Scale(s), nil
}

// ToAsset is the inverse of ToDisplay.
func ToAsset(r Rect, asset Size, displayWidth float64) (Rect, error) {
	s, err := displayScale(asset, displayWidth)
	if err != nil {
		return Rect{}, err
	}
	return r.Scale(1 / s), nil
}

// PointToAsset maps a display-space point into asset pixels.
func PointToAsset(p Point, asset Size, displayWidth float64) (Point, error) {
	s, err := displayScale(asset, displayWidth)
	if err != nil {
		return Point{}, err
	}
	return Point{X: p.X / s, Y: p.Y / s}, nil
}

// ToUnit converts a rectangle in asset pixels into the unit square.
//
// The origin is clamped to [0, 1-MinUnitSize] and each side to [MinUnitSize, 1];
// a side that would cross the far edge is then shrunk to fit, but never below
// MinUnitSize (1-0.9 rounds under 0.1). Out-of-range input is clamped, never
// rejected.
func ToUnit(r Rect, asset Size) (Rect, error) {
	if !asset.Valid() {
		return Rect{}, ErrInvalidDimensions
	}
	u := Rect{
		X:      clamp(r.X/asset.Width, 0, 1-MinUnitSize),
		Y:      clamp(r.Y/asset.Height, 0, 1-MinUnitSize),
		Width:  clamp(r.Width/asset.Width, MinUnitSize, 1),
		Height: clamp(r.Height/asset.Height, MinUnitSize, 1),
	}
	if u.X+u.Width > 1 {
		u.Width = max(1-u.X, MinUnitSize)
	}
	if u.Y+u.Height > 1 {
		u.Height = max(1-u.Y, MinUnitSize)
	}
	return u, nil
}

// ToUnitPoint converts a point in asset pixels into the unit square.
func ToUnitPoint(p Point, asset Size) (Point, error) {
	if !asset.Valid() {
		return Point{}, ErrInvalidDimensions
	}
	return Point{
		X: clamp(p.X/asset.Width, 0, 1),
		Y: clamp(p.Y/asset.Height, 0, 1),
	}, nil
}

// ToUnitScalar maps a symmetric UI range such as -100..100 onto -1..1 by
// dividing by the range's largest magnitude.
func ToUnitScalar(value, min, max float64) (float64, error) {
	magnitude := math.Max(math.Abs(min), math.Abs(max))
	if !positive(magnitude) {
		return 0, ErrInvalidRange
	}
	return clamp(value/magnitude, -1, 1), nil
}
