package lightning

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

const (
	twoPi      = 2 * math.Pi
	rightAngle = math.Pi / 2
)

// Bolt is a live lightning generator.
type Bolt struct {
	id uuid.UUID

	vertexCount    int
	funkiness      float64
	radius         float64
	cycleRate      float64 // radians
	cycles         int
	cycleIncrement float64

	noiseIncrement float64
	noiseValue     float64
	xSeed          float64
	ySeed          float64
	zSeed          float64
	fbm            geom.FBMParams
	noise          geom.Noise2D

	colorRange []color.RGBA
	colorSpeed float64

	one, two Anchor
	factory  SegmentFactory

	vertices []r3.Vec
	segments []Segment
	points   []r3.Vec
}

// New validates p and creates a bolt. Segments are created lazily on the first Update.
func New(p Params, factory SegmentFactory) (*Bolt, error) {
	if p.VertexCount < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrVertexCount, p.VertexCount)
	}
	if p.One == nil || p.Two == nil {
		return nil, ErrMissingAnchor
	}
	if factory == nil {
		return nil, ErrMissingFactory
	}

	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	noise := p.Noise
	if noise == nil {
		noise = geom.NewPerlin(rng.Int63())
	}

	colors := p.ColorRange
	if len(colors) == 0 {
		colors = []color.RGBA{DefaultColor}
	}
	closed := make([]color.RGBA, len(colors), len(colors)+1)
	copy(closed, colors)
	closed = append(closed, closed[0])

	fbm := p.FBM
	if fbm.Octaves < 1 {
		fbm.Octaves = 1
	}

	b := &Bolt{
		id:             uuid.New(),
		vertexCount:    p.VertexCount,
		funkiness:      geom.Or(p.Funkiness, DefaultFunkiness),
		radius:         geom.Or(p.Radius, DefaultRadius),
		cycleRate:      geom.Radians(geom.Or(p.CycleRate, DefaultCycleRate)),
		cycles:         geom.Or(p.Cycles, DefaultCycles),
		noiseIncrement: geom.Or(p.NoiseIncrement, DefaultNoiseIncrement),
		xSeed:          randomSeed(rng),
		ySeed:          randomSeed(rng),
		zSeed:          randomSeed(rng),
		fbm:            fbm,
		noise:          noise,
		colorRange:     closed,
		colorSpeed:     geom.Or(p.ColorSpeed, DefaultColorSpeed),
		one:            p.One,
		two:            p.Two,
		factory:        factory,
		vertices:       make([]r3.Vec, p.VertexCount-2),
		points:         make([]r3.Vec, p.VertexCount),
	}
	return b, nil
}

func randomSeed(rng *rand.Rand) float64 {
	return float64(rng.Intn(SeedRange)+1) / 10
}

// Reshape applies live parameter changes. Zero values select defaults, as in New.
func (b *Bolt) Reshape(s Shape) {
	b.funkiness = geom.Or(s.Funkiness, DefaultFunkiness)
	b.radius = geom.Or(s.Radius, DefaultRadius)
	b.cycleRate = geom.Radians(geom.Or(s.CycleRate, DefaultCycleRate))
	b.cycles = geom.Or(s.Cycles, DefaultCycles)
	if s.FBM.Octaves >= 1 {
		b.fbm = s.FBM
	}
	if b.cycles == 0 {
		b.cycleIncrement = 0
	}
}

// Update regenerates the interior vertices and re-places every segment.
// A bolt whose geometry is not finite, or which has zero-length segments,
// returns ErrDegenerateGeometry; affected segments keep their previous placement.
func (b *Bolt) Update() error {
	size := b.vertexCount
	cyclic := b.cycles > 0
	cycleIncrement := b.cycleIncrement

	vertsPerCycle := 1
	if cyclic {
		vertsPerCycle = int(math.Ceil(float64(size) / float64(b.cycles)))
	}
	angleOffset := twoPi / float64(vertsPerCycle)

	origin := b.one.Position()
	end := b.two.Position()
	yOffset := -(r3.Norm(r3.Sub(origin, end)) / float64(size))
	if origin.Y < end.Y {
		yOffset *= -1
	}

	for i := 1; i < size-1; i++ {
		v := r3.Vec{
			X: origin.X + geom.EvaluateFBM(b.noiseValue, b.xSeed, b.fbm, b.noise),
			Y: origin.Y + yOffset*float64(i) + geom.EvaluateFBM(b.noiseValue, b.ySeed, b.fbm, b.noise),
			Z: origin.Z + geom.EvaluateFBM(b.noiseValue, b.zSeed, b.fbm, b.noise),
		}
		b.noiseValue += b.noiseIncrement

		if cyclic {
			phase := angleOffset*float64(i%vertsPerCycle) - cycleIncrement
			v.X += b.radius * math.Cos(phase)
			v.Z += b.radius * math.Sin(phase)
		}
		b.vertices[i-1] = v
	}

	b.xSeed += b.noiseIncrement / 2
	b.ySeed += b.noiseIncrement / 2
	b.zSeed += b.noiseIncrement / 2
	b.noiseValue = 0

	b.mapRotation(origin, end)
	err := b.placeSegments(origin, end)

	if cyclic {
		b.cycleIncrement = geom.WrapAbove(b.cycleIncrement+b.cycleRate, twoPi)
	}
	return err
}

// mapRotation re-expresses each vertex's offset from the first anchor along
// that anchor's right, down and look axes.
func (b *Bolt) mapRotation(origin, end r3.Vec) {
	basis := b.one.Basis()
	down := r3.Scale(-1, basis.Up)

	direction := 1.0
	if origin.Y < end.Y {
		direction = -1
	}

	for i, v := range b.vertices {
		p := r3.Add(origin, r3.Scale(direction*(v.X-origin.X), basis.Right))
		p = r3.Add(p, r3.Scale(math.Abs(origin.Y-v.Y), down))
		p = r3.Add(p, r3.Scale(direction*(v.Z-origin.Z), basis.Look))
		b.vertices[i] = p
	}
}

// placeSegments emits one segment per consecutive pair of
// [first anchor, vertices..., second anchor].
func (b *Bolt) placeSegments(origin, end r3.Vec) error {
	b.points[0] = origin
	copy(b.points[1:], b.vertices)
	b.points[len(b.points)-1] = end

	if len(b.segments) == 0 {
		b.segments = make([]Segment, len(b.points)-1)
		for i := range b.segments {
			b.segments[i] = b.factory.NewSegment(b.colorRange[0])
		}
	}

	var degenerate []int
	for i, seg := range b.segments {
		current := b.points[i]
		following := b.points[i+1]

		frame, ok := geom.LookAt(geom.Center(current, following), following)
		if !ok || !geom.Finite(current) || !geom.Finite(following) {
			degenerate = append(degenerate, i)
			continue
		}
		length := r3.Norm(r3.Sub(following, current))
		seg.Place(frame.RotateY(rightAngle), r3.Vec{X: length, Y: Thickness, Z: Thickness})
	}

	if len(degenerate) > 0 {
		return fmt.Errorf("%w: segments %v", ErrDegenerateGeometry, degenerate)
	}
	return nil
}

// Destroy releases every segment. The bolt may be updated again afterwards,
// which recreates them.
func (b *Bolt) Destroy() {
	for _, seg := range b.segments {
		seg.Release()
	}
	b.segments = nil
}

// ID returns the bolt's unique identifier.
func (b *Bolt) ID() uuid.UUID { return b.id }

// Vertices returns the interior vertices from the last Update.
func (b *Bolt) Vertices() []r3.Vec { return b.vertices }

// Points returns the anchors and interior vertices from the last Update, in order.
func (b *Bolt) Points() []r3.Vec { return b.points }

// Segments returns the owned segment primitives.
func (b *Bolt) Segments() []Segment { return b.segments }

// VertexCount returns the configured vertex count, anchors included.
func (b *Bolt) VertexCount() int { return b.vertexCount }

// ColorRange returns the closed color loop.
func (b *Bolt) ColorRange() []color.RGBA { return b.colorRange }

// ColorSpeed returns the configured gradient speed.
func (b *Bolt) ColorSpeed() float64 { return b.colorSpeed }

// Funkiness returns the configured jitter factor.
func (b *Bolt) Funkiness() float64 { return b.funkiness }

// Radius returns the helix radius.
func (b *Bolt) Radius() float64 { return b.radius }

// Cycles returns the helix cycle count; zero disables the helix.
func (b *Bolt) Cycles() int { return b.cycles }

// CycleRate returns the per-tick phase advance in radians.
func (b *Bolt) CycleRate() float64 { return b.cycleRate }

// CycleIncrement returns the current helix phase.
func (b *Bolt) CycleIncrement() float64 { return b.cycleIncrement }

// FBM returns the noise parameters.
func (b *Bolt) FBM() geom.FBMParams { return b.fbm }
