// Package components defines ECS components for the reference scene.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

// Transform places an entity in the world.
type Transform struct {
	Frame geom.Frame
}

// Volume is a pooled, resizable collision probe.
// Probes live at the world origin; queries are made in probe-relative space.
type Volume struct {
	Name  string
	Size  geom.Dimensions
	InUse bool
}

// Segment is one rendered bolt segment. Size.X runs along the frame's right axis.
type Segment struct {
	Size  r3.Vec
	Color color.RGBA
}

// Anchor marks a named object that exposes position and orientation.
type Anchor struct {
	Name string
}

// Orbit moves an anchor around a pivot in the XZ plane.
type Orbit struct {
	Pivot  r3.Vec
	Radius float64
	Speed  float64 // radians per second
	Phase  float64 // current angle
}
