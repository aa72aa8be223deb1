// Package geom provides the geometry helpers shared by the field index and the bolt generator.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dimensions is the full extent of an axis-aligned rectangular prism.
type Dimensions struct {
	X, Y, Z float64
}

// Vec returns the dimensions as a vector.
func (d Dimensions) Vec() r3.Vec {
	return r3.Vec{X: d.X, Y: d.Y, Z: d.Z}
}

// Scale divides every extent by div.
func (d Dimensions) Scale(div float64) Dimensions {
	return Dimensions{X: d.X / div, Y: d.Y / div, Z: d.Z / div}
}

// Diagonal returns the length of the prism's space diagonal.
func (d Dimensions) Diagonal() float64 {
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Box is a positioned prism: center plus full size.
type Box struct {
	Position r3.Vec
	Size     Dimensions
}

// Center returns the midpoint of a and b.
func Center(a, b r3.Vec) r3.Vec {
	return r3.Add(a, r3.Scale(0.5, r3.Sub(b, a)))
}

// PrismVertices enumerates the 8 corners of a prism centered at the origin.
// The order is top/bottom, then left/right, then front/back and matches the
// octant alphabet used by the field index.
func PrismVertices(d Dimensions) [8]r3.Vec {
	hx, hy, hz := d.X/2, d.Y/2, d.Z/2
	return [8]r3.Vec{
		{X: hx, Y: hy, Z: -hz},
		{X: hx, Y: hy, Z: hz},
		{X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: hy, Z: hz},
		{X: hx, Y: -hy, Z: -hz},
		{X: hx, Y: -hy, Z: hz},
		{X: -hx, Y: -hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz},
	}
}

// PrismDimensions returns the absolute per-axis span between two opposite corners.
func PrismDimensions(c1, c2 r3.Vec) Dimensions {
	return Dimensions{
		X: math.Abs(c1.X - c2.X),
		Y: math.Abs(c1.Y - c2.Y),
		Z: math.Abs(c1.Z - c2.Z),
	}
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
