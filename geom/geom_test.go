package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecNear(a, b r3.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

func TestCenter(t *testing.T) {
	a := r3.Vec{X: 1, Y: -2, Z: 3}
	b := r3.Vec{X: 5, Y: 6, Z: -7}

	want := r3.Vec{X: 3, Y: 2, Z: -2}
	if got := Center(a, b); !vecNear(got, want) {
		t.Errorf("Center(a, b) = %v, want %v", got, want)
	}
	if !vecNear(Center(a, b), Center(b, a)) {
		t.Error("Center should be commutative")
	}
}

func TestPrismVertices(t *testing.T) {
	v := PrismVertices(Dimensions{X: 2, Y: 4, Z: 6})

	want := [8]r3.Vec{
		{X: 1, Y: 2, Z: -3},
		{X: 1, Y: 2, Z: 3},
		{X: -1, Y: 2, Z: -3},
		{X: -1, Y: 2, Z: 3},
		{X: 1, Y: -2, Z: -3},
		{X: 1, Y: -2, Z: 3},
		{X: -1, Y: -2, Z: -3},
		{X: -1, Y: -2, Z: 3},
	}
	for i := range want {
		if !vecNear(v[i], want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestPrismDimensions(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 r3.Vec
		want   Dimensions
	}{
		{"unit cube", r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, Dimensions{1, 1, 1}},
		{"reversed corners", r3.Vec{X: 4, Y: 3, Z: 2}, r3.Vec{X: -4, Y: -3, Z: -2}, Dimensions{8, 6, 4}},
		{"y uses y components", r3.Vec{X: 0, Y: 10}, r3.Vec{X: 2, Y: 0}, Dimensions{2, 10, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PrismDimensions(tc.c1, tc.c2); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	if !Finite(r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Error("expected finite vector")
	}
	if Finite(r3.Vec{X: math.NaN()}) {
		t.Error("NaN should not be finite")
	}
	if Finite(r3.Vec{Z: math.Inf(-1)}) {
		t.Error("-Inf should not be finite")
	}
}

func TestPerlin_LatticeAndRange(t *testing.T) {
	p := NewPerlin(7)
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			if v := p.Noise2D(float64(x), float64(y)); v != 0 {
				t.Fatalf("Noise2D(%d, %d) = %v, want 0 on lattice", x, y, v)
			}
		}
	}
	for i := 0; i < 500; i++ {
		x := float64(i)*0.173 - 40
		y := float64(i)*0.291 + 3
		v := p.Noise2D(x, y)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("Noise2D(%v, %v) = %v out of range", x, y, v)
		}
	}
}

func TestNewNoise_Kinds(t *testing.T) {
	if _, ok := NewNoise(NoisePerlin, 1).(*Perlin); !ok {
		t.Error("perlin kind should build *Perlin")
	}
	if _, ok := NewNoise(NoiseSimplex, 1).(*Simplex); !ok {
		t.Error("opensimplex kind should build *Simplex")
	}
	if _, ok := NewNoise("bogus", 1).(*Perlin); !ok {
		t.Error("unknown kind should fall back to *Perlin")
	}
}

func TestEvaluateFBM_Deterministic(t *testing.T) {
	params := FBMParams{Amplitude: 1.15, Frequency: 1, Octaves: 3, Persistence: 0.5, Lacunarity: 2}
	for _, kind := range []string{NoisePerlin, NoiseSimplex} {
		t.Run(kind, func(t *testing.T) {
			n := NewNoise(kind, 99)
			a := EvaluateFBM(0.37, 12.1, params, n)
			b := EvaluateFBM(0.37, 12.1, params, n)
			if a != b {
				t.Errorf("same inputs gave %v and %v", a, b)
			}
		})
	}
}

func TestEvaluateFBM_DoesNotMutateParams(t *testing.T) {
	params := FBMParams{Amplitude: 2, Frequency: 1.5, Octaves: 4, Persistence: 0.5, Lacunarity: 2}
	before := params
	EvaluateFBM(1.3, 4.4, params, NewPerlin(3))
	if params != before {
		t.Errorf("params changed: %+v -> %+v", before, params)
	}
}

func TestEvaluateFBM_ExtraOctave(t *testing.T) {
	n := NewPerlin(11)
	params := FBMParams{Amplitude: 1, Frequency: 1.3, Octaves: 2, Persistence: 0.5, Lacunarity: 2}
	x, y := 0.41, 7.77

	base := EvaluateFBM(x, y, params, n)
	params.Octaves++
	extended := EvaluateFBM(x, y, params, n)

	// third octave: amplitude 0.25, frequency 5.2
	contribution := 0.25 * n.Noise2D(x*5.2, y*5.2)
	if !scalar.EqualWithinAbs(extended-base, contribution, tol) {
		t.Errorf("extra octave added %v, want %v", extended-base, contribution)
	}
	if contribution != 0 && extended == base {
		t.Error("extra octave with non-zero amplitude should change the result")
	}
}

func TestEvaluateFBM_ZeroAmplitude(t *testing.T) {
	params := FBMParams{Amplitude: 0, Frequency: 1, Octaves: 5, Persistence: 1, Lacunarity: 1}
	if v := EvaluateFBM(3.3, 1.1, params, NewPerlin(1)); v != 0 {
		t.Errorf("zero amplitude gave %v", v)
	}
}

func TestLookAt(t *testing.T) {
	at := r3.Vec{X: 1, Y: 1, Z: 1}
	target := r3.Vec{X: 4, Y: 5, Z: 1}

	f, ok := LookAt(at, target)
	if !ok {
		t.Fatal("expected valid frame")
	}
	wantLook := r3.Unit(r3.Sub(target, at))
	if !vecNear(f.Look(), wantLook) {
		t.Errorf("look = %v, want %v", f.Look(), wantLook)
	}
	if !scalar.EqualWithinAbs(r3.Dot(f.Right, f.Up), 0, tol) ||
		!scalar.EqualWithinAbs(r3.Dot(f.Right, f.Back), 0, tol) ||
		!scalar.EqualWithinAbs(r3.Dot(f.Up, f.Back), 0, tol) {
		t.Error("frame axes are not orthogonal")
	}
}

func TestLookAt_Vertical(t *testing.T) {
	f, ok := LookAt(r3.Vec{}, r3.Vec{Y: -3})
	if !ok {
		t.Fatal("expected valid frame for vertical look")
	}
	if !vecNear(f.Look(), r3.Vec{Y: -1}) {
		t.Errorf("look = %v", f.Look())
	}
	if !Finite(f.Right) || !scalar.EqualWithinAbs(r3.Norm(f.Right), 1, tol) {
		t.Errorf("right axis degenerate: %v", f.Right)
	}
}

func TestLookAt_Degenerate(t *testing.T) {
	p := r3.Vec{X: 2, Y: 2, Z: 2}
	f, ok := LookAt(p, p)
	if ok {
		t.Error("coincident points should report not ok")
	}
	if f.Position != p {
		t.Errorf("position = %v, want %v", f.Position, p)
	}
}

func TestRotateY_QuarterTurnAlignsRightWithLook(t *testing.T) {
	f, _ := LookAt(r3.Vec{}, r3.Vec{X: 3, Z: -4})
	look := f.Look()

	r := f.RotateY(math.Pi / 2)
	if !vecNear(r.Right, look) {
		t.Errorf("rotated right = %v, want look %v", r.Right, look)
	}
	if !vecNear(r.Up, f.Up) {
		t.Errorf("up changed: %v -> %v", f.Up, r.Up)
	}
}

func TestScalarHelpers(t *testing.T) {
	if got := Radians(180.0); !scalar.EqualWithinAbs(got, math.Pi, tol) {
		t.Errorf("Radians(180) = %v", got)
	}
	if got := WrapAbove(7.0, 2*math.Pi); !scalar.EqualWithinAbs(got, 7-2*math.Pi, tol) {
		t.Errorf("WrapAbove(7) = %v", got)
	}
	if got := WrapAbove(1.0, 2*math.Pi); got != 1 {
		t.Errorf("WrapAbove(1) = %v", got)
	}
	if Or(0, 5) != 5 || Or(3, 5) != 3 {
		t.Error("Or substitution wrong")
	}
}

func TestPerlin_SeededAndContinuous(t *testing.T) {
	a, b, other := NewPerlin(5), NewPerlin(5), NewPerlin(6)

	differs := false
	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 20
		y := float64(i)*0.11 + 0.5
		v := a.Noise2D(x, y)
		if v != b.Noise2D(x, y) {
			t.Fatalf("same seed disagrees at (%v, %v)", x, y)
		}
		if v < -1 || v > 1 {
			t.Fatalf("Noise2D(%v, %v) = %v outside [-1, 1]", x, y, v)
		}
		if v != other.Noise2D(x, y) {
			differs = true
		}
		// small steps move the value a little
		if d := math.Abs(a.Noise2D(x+1e-4, y) - v); d > 1e-2 {
			t.Fatalf("jump of %v near (%v, %v)", d, x, y)
		}
	}
	if !differs {
		t.Error("different seeds produced identical noise")
	}
}
