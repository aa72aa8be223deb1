// Package camera provides an orbiting 3D camera for viewing the scene.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits a target point at a given distance.
// Yaw rotates around +Y; pitch tilts toward the poles.
type Camera struct {
	Target r3.Vec

	Yaw      float64 // radians
	Pitch    float64 // radians, clamped short of the poles
	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home struct {
		target               r3.Vec
		yaw, pitch, distance float64
	}
}

const maxPitch = math.Pi/2 - 0.05

// New creates a camera looking at target from distance.
func New(target r3.Vec, distance float64) *Camera {
	c := &Camera{
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 8,
		Distance:    distance,
		MinDistance: 1,
		MaxDistance: distance * 8,
	}
	c.home.target = target
	c.home.yaw = c.Yaw
	c.home.pitch = c.Pitch
	c.home.distance = distance
	return c
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: c.Distance * cp * math.Cos(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Sin(c.Yaw),
	}
	return r3.Add(c.Target, offset)
}

// Rotate orbits the camera by the given yaw and pitch deltas.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves the target along the camera's horizontal right and forward axes.
func (c *Camera) Pan(right, forward float64) {
	fwd := r3.Vec{X: -math.Cos(c.Yaw), Z: -math.Sin(c.Yaw)}
	side := r3.Vec{X: -fwd.Z, Z: fwd.X}
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(right, side), r3.Scale(forward, fwd)))
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the distance by factor, so factors above 1 move closer.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to its initial placement.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Distance = c.home.distance
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
