// Package lightning generates procedural bolts between two anchors and
// re-emits them every tick as a chain of oriented segments.
package lightning

import (
	"errors"
	"image/color"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

// Defaults substituted for zero-valued parameters.
const (
	DefaultFunkiness      = 0.5
	DefaultRadius         = 0.0
	DefaultCycleRate      = 4.0 // degrees
	DefaultCycles         = 0
	DefaultNoiseIncrement = 0.15
	DefaultColorSpeed     = 1.0

	// SeedRange bounds the per-axis noise seeds, which are drawn from [0.1, SeedRange/10].
	SeedRange = 1000

	// Thickness is the cross-section of every emitted segment.
	Thickness = 0.5
)

// DefaultColor is used when no color range is given.
var DefaultColor = color.RGBA{R: 163, G: 28, B: 250, A: 255}

var (
	ErrVertexCount        = errors.New("lightning: vertex count must be at least 3")
	ErrMissingAnchor      = errors.New("lightning: both anchors are required")
	ErrMissingFactory     = errors.New("lightning: segment factory is required")
	ErrDegenerateGeometry = errors.New("lightning: degenerate geometry")
)

// Anchor is a bolt endpoint provided by the host scene.
type Anchor interface {
	Position() r3.Vec
	Basis() geom.Basis
}

// Segment is a rendered primitive owned by a bolt.
type Segment interface {
	Place(frame geom.Frame, size r3.Vec)
	Release()
}

// SegmentFactory creates segment primitives in the host scene.
type SegmentFactory interface {
	NewSegment(c color.RGBA) Segment
}

// Params configures a bolt. Zero values select the package defaults.
type Params struct {
	VertexCount    int
	Funkiness      float64
	Radius         float64
	CycleRate      float64 // degrees per tick
	Cycles         int
	ColorRange     []color.RGBA
	ColorSpeed     float64
	NoiseIncrement float64
	FBM            geom.FBMParams

	One, Two Anchor

	// Noise defaults to Perlin noise seeded from Rand.
	Noise geom.Noise2D
	// Rand seeds the axis offsets; defaults to a randomly seeded source per bolt.
	Rand *rand.Rand
}

// Shape is the subset of parameters that may change while a bolt is live.
type Shape struct {
	Funkiness float64
	Radius    float64
	CycleRate float64 // degrees per tick
	Cycles    int
	FBM       geom.FBMParams
}
