package renderer

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

func TestSegmentEnds(t *testing.T) {
	start := r3.Vec{X: 1, Y: 8, Z: -2}
	end := r3.Vec{X: 1, Y: 2, Z: 3}

	frame, ok := geom.LookAt(geom.Center(start, end), end)
	if !ok {
		t.Fatal("LookAt failed")
	}
	frame = frame.RotateY(1.5707963267948966)
	length := r3.Norm(r3.Sub(end, start))

	a, b := SegmentEnds(frame, r3.Vec{X: length, Y: 0.5, Z: 0.5})

	// endpoints may come out in either order
	matches := func(p, q r3.Vec) bool { return r3.Norm(r3.Sub(p, q)) < 1e-9 }
	if !(matches(a, start) && matches(b, end)) && !(matches(a, end) && matches(b, start)) {
		t.Errorf("ends = %v %v, want %v %v", a, b, start, end)
	}
	if got := r3.Norm(r3.Sub(b, a)); !scalar.EqualWithinAbs(got, length, 1e-9) {
		t.Errorf("length = %v, want %v", got, length)
	}
}

func TestDepthColor(t *testing.T) {
	if DepthColor(-3) != depthPalette[0] {
		t.Error("negative depth should clamp to unclassified")
	}
	if DepthColor(100) != depthPalette[len(depthPalette)-1] {
		t.Error("deep codes should clamp to the last color")
	}
	if DepthColor(2) == DepthColor(3) {
		t.Error("adjacent depths should differ")
	}
}
