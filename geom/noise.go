package geom

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Noise2D is a deterministic, continuous 2D noise source bounded to roughly [-1, 1].
type Noise2D interface {
	Noise2D(x, y float64) float64
}

// Noise kinds accepted by NewNoise.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "opensimplex"
)

// NewNoise builds the named noise source. Unknown kinds fall back to Perlin.
func NewNoise(kind string, seed int64) Noise2D {
	if kind == NoiseSimplex {
		return NewSimplex(seed)
	}
	return NewPerlin(seed)
}

// Perlin is 2D gradient noise over a seeded permutation of the lattice.
// Values are zero on the integer lattice and stay within [-1, 1].
type Perlin struct {
	perm [256]uint8
}

// gradients2D are the eight unit directions a lattice corner can point in.
var gradients2D = [8]r2{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

type r2 struct{ x, y float64 }

// NewPerlin creates a Perlin noise generator for the given seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	for i := range p.perm {
		p.perm[i] = uint8(i)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(p.perm), func(i, j int) {
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	})
	return p
}

// corner returns the dot product of the gradient at lattice point (ix, iy)
// with the offset (dx, dy) from that point.
func (p *Perlin) corner(ix, iy int, dx, dy float64) float64 {
	h := p.perm[(int(p.perm[ix&255])+iy)&255]
	g := gradients2D[h&7]
	return g.x*dx + g.y*dy
}

// Noise2D returns the noise value at (x, y).
func (p *Perlin) Noise2D(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	ix, iy := int(fx), int(fy)
	dx, dy := x-fx, y-fy

	n00 := p.corner(ix, iy, dx, dy)
	n10 := p.corner(ix+1, iy, dx-1, dy)
	n01 := p.corner(ix, iy+1, dx, dy-1)
	n11 := p.corner(ix+1, iy+1, dx-1, dy-1)

	u, v := quintic(dx), quintic(dy)
	bottom := n00 + u*(n10-n00)
	top := n01 + u*(n11-n01)
	// unit gradients peak at sqrt(2)/2 in 2D
	return (bottom + v*(top-bottom)) * math.Sqrt2
}

// quintic is the 6t^5 - 15t^4 + 10t^3 ease curve; its first and second
// derivatives vanish at 0 and 1.
func quintic(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// Simplex adapts OpenSimplex noise to Noise2D.
type Simplex struct {
	noise opensimplex.Noise
}

// NewSimplex creates an OpenSimplex noise source for the given seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.New(seed)}
}

// Noise2D returns the OpenSimplex value at (x, y).
func (s *Simplex) Noise2D(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}
