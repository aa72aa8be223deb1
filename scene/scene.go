// Package scene is an ECS-backed host scene: it owns probe volumes, anchors and
// rendered segments, and answers raycasts against probes.
package scene

import (
	"image/color"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/components"
	"github.com/pthm-cable/arclight/geom"
	"github.com/pthm-cable/arclight/lightning"
	"github.com/pthm-cable/arclight/probe"
)

// Scene holds the ECS world and the handles given out to the core packages.
type Scene struct {
	world *ecs.World

	volumeMapper  *ecs.Map2[components.Transform, components.Volume]
	segmentMapper *ecs.Map2[components.Transform, components.Segment]
	anchorMapper  *ecs.Map2[components.Transform, components.Anchor]

	transformMap *ecs.Map1[components.Transform]
	volumeMap    *ecs.Map1[components.Volume]
	orbitMap     *ecs.Map1[components.Orbit]

	segmentFilter *ecs.Filter2[components.Transform, components.Segment]
	volumeFilter  *ecs.Filter2[components.Transform, components.Volume]
	orbitFilter   *ecs.Filter2[components.Transform, components.Orbit]

	volumes     []probe.Volume
	placeholder *Volume
	anchors     map[string]*Anchor
	segments    int
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:         world,
		volumeMapper:  ecs.NewMap2[components.Transform, components.Volume](world),
		segmentMapper: ecs.NewMap2[components.Transform, components.Segment](world),
		anchorMapper:  ecs.NewMap2[components.Transform, components.Anchor](world),
		transformMap:  ecs.NewMap1[components.Transform](world),
		volumeMap:     ecs.NewMap1[components.Volume](world),
		orbitMap:      ecs.NewMap1[components.Orbit](world),
		segmentFilter: ecs.NewFilter2[components.Transform, components.Segment](world),
		volumeFilter:  ecs.NewFilter2[components.Transform, components.Volume](world),
		orbitFilter:   ecs.NewFilter2[components.Transform, components.Orbit](world),
		anchors:       make(map[string]*Anchor),
	}
}

// World exposes the underlying ECS world.
func (s *Scene) World() *ecs.World {
	return s.world
}

// AddVolumes creates n pooled probe volumes at the origin.
func (s *Scene) AddVolumes(n int) {
	for i := 0; i < n; i++ {
		s.volumes = append(s.volumes, s.newVolume("probe"))
	}
}

// SetPlaceholder creates the shared fallback volume used when the pool is exhausted.
func (s *Scene) SetPlaceholder() *Volume {
	s.placeholder = s.newVolume("placeholder")
	return s.placeholder
}

func (s *Scene) newVolume(name string) *Volume {
	tr := components.Transform{Frame: geom.NewFrame(r3.Vec{})}
	vol := components.Volume{Name: name}
	e := s.volumeMapper.NewEntity(&tr, &vol)
	return &Volume{scene: s, entity: e}
}

// Volumes returns the probe pool.
func (s *Scene) Volumes() []probe.Volume {
	return s.volumes
}

// Placeholder returns the fallback volume, or nil when none was created.
func (s *Scene) Placeholder() probe.Volume {
	if s.placeholder == nil {
		return nil
	}
	return s.placeholder
}

// Querier builds a containment querier over this scene's probes.
func (s *Scene) Querier() *probe.Querier {
	return probe.NewQuerier(s, s.Volumes(), s.Placeholder())
}

// Raycast intersects the segment origin→origin+direction with the filtered
// volume's box. An origin inside the box is a hit at distance zero.
func (s *Scene) Raycast(origin, direction r3.Vec, filter probe.Filter) (probe.Volume, bool) {
	v, ok := filter.Include.(*Volume)
	if !ok || v.scene != s || !s.world.Alive(v.entity) {
		return nil, false
	}
	tr, vol := s.volumeMapper.Get(v.entity)

	half := r3.Scale(0.5, vol.Size.Vec())
	lo := r3.Sub(tr.Frame.Position, half)
	hi := r3.Add(tr.Frame.Position, half)
	if !segmentHitsBox(origin, direction, lo, hi) {
		return nil, false
	}
	return v, true
}

// segmentHitsBox is a slab test restricted to t in [0, 1].
func segmentHitsBox(origin, dir, lo, hi r3.Vec) bool {
	tMin, tMax := 0.0, 1.0
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < l[i] || o[i] > h[i] {
				return false
			}
			continue
		}
		t1 := (l[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// NewSegment creates a rendered segment entity.
func (s *Scene) NewSegment(c color.RGBA) lightning.Segment {
	tr := components.Transform{Frame: geom.NewFrame(r3.Vec{})}
	seg := components.Segment{Color: c}
	e := s.segmentMapper.NewEntity(&tr, &seg)
	s.segments++
	return &Segment{scene: s, entity: e}
}

// SegmentCount returns the number of live segments.
func (s *Scene) SegmentCount() int {
	return s.segments
}

// ForEachSegment visits every live segment.
func (s *Scene) ForEachSegment(fn func(frame geom.Frame, size r3.Vec, c color.RGBA)) {
	query := s.segmentFilter.Query()
	for query.Next() {
		tr, seg := query.Get()
		fn(tr.Frame, seg.Size, seg.Color)
	}
}

// ForEachVolume visits every probe volume, placeholder included.
func (s *Scene) ForEachVolume(fn func(vol components.Volume, pos r3.Vec)) {
	query := s.volumeFilter.Query()
	for query.Next() {
		tr, vol := query.Get()
		fn(*vol, tr.Frame.Position)
	}
}
