package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

// toRL converts a world vector for raylib.
func toRL(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toRLColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// SegmentEnds returns the endpoints of a segment placed at frame with size.
// The segment's length runs along the frame's right axis.
func SegmentEnds(frame geom.Frame, size r3.Vec) (a, b r3.Vec) {
	half := r3.Scale(size.X/2, frame.Right)
	return r3.Sub(frame.Position, half), r3.Add(frame.Position, half)
}

// depthPalette tints classifications by code depth, shallow to deep.
var depthPalette = []color.RGBA{
	{R: 90, G: 90, B: 90, A: 255},
	{R: 60, G: 130, B: 255, A: 255},
	{R: 60, G: 220, B: 200, A: 255},
	{R: 120, G: 240, B: 90, A: 255},
	{R: 250, G: 220, B: 60, A: 255},
	{R: 255, G: 120, B: 40, A: 255},
	{R: 255, G: 40, B: 90, A: 255},
}

// DepthColor returns the tint for a code of the given depth. Depth zero means
// unclassified.
func DepthColor(depth int) color.RGBA {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(depthPalette) {
		depth = len(depthPalette) - 1
	}
	return depthPalette[depth]
}
