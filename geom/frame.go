package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unit axes.
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Basis is the orientation of an anchor: its right, up and look directions.
type Basis struct {
	Right, Up, Look r3.Vec
}

// IdentityBasis looks down -Z with +Y up.
func IdentityBasis() Basis {
	return Basis{Right: AxisX, Up: AxisY, Look: r3.Scale(-1, AxisZ)}
}

// Frame is a positioned orthonormal basis. Right, Up and Back are the local
// X, Y and Z axes expressed in world space; the look direction is -Back.
type Frame struct {
	Position r3.Vec
	Right    r3.Vec
	Up       r3.Vec
	Back     r3.Vec
}

// NewFrame returns an axis-aligned frame at pos.
func NewFrame(pos r3.Vec) Frame {
	return Frame{Position: pos, Right: AxisX, Up: AxisY, Back: AxisZ}
}

// Look returns the frame's forward direction.
func (f Frame) Look() r3.Vec {
	return r3.Scale(-1, f.Back)
}

// Basis returns the frame orientation as an anchor basis.
func (f Frame) Basis() Basis {
	return Basis{Right: f.Right, Up: f.Up, Look: f.Look()}
}

// LookAt builds a frame at `at` facing `target` with world up +Y. When the look
// direction is parallel to +Y, +Z is used as the reference up instead. ok is
// false if at and target coincide; the returned frame is then axis aligned.
func LookAt(at, target r3.Vec) (f Frame, ok bool) {
	dir := r3.Sub(target, at)
	if r3.Norm(dir) == 0 || !Finite(dir) {
		return NewFrame(at), false
	}
	back := r3.Unit(r3.Scale(-1, dir))

	up := AxisY
	if math.Abs(r3.Dot(back, up)) > 1-1e-9 {
		up = AxisZ
	}
	right := r3.Unit(r3.Cross(up, back))
	return Frame{
		Position: at,
		Right:    right,
		Up:       r3.Cross(back, right),
		Back:     back,
	}, true
}

// RotateY rotates the frame about its own up axis by theta radians.
func (f Frame) RotateY(theta float64) Frame {
	c, s := math.Cos(theta), math.Sin(theta)
	return Frame{
		Position: f.Position,
		Right:    r3.Sub(r3.Scale(c, f.Right), r3.Scale(s, f.Back)),
		Up:       f.Up,
		Back:     r3.Add(r3.Scale(s, f.Right), r3.Scale(c, f.Back)),
	}
}

// PointToWorld maps a local offset into world space.
func (f Frame) PointToWorld(local r3.Vec) r3.Vec {
	p := r3.Add(f.Position, r3.Scale(local.X, f.Right))
	p = r3.Add(p, r3.Scale(local.Y, f.Up))
	return r3.Add(p, r3.Scale(local.Z, f.Back))
}
