package scene

import (
	"image/color"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/components"
	"github.com/pthm-cable/arclight/geom"
)

// Volume is a handle to a probe entity. It implements probe.Volume.
type Volume struct {
	scene  *Scene
	entity ecs.Entity
}

func (v *Volume) Name() string {
	return v.scene.volumeMap.Get(v.entity).Name
}

func (v *Volume) Resize(size geom.Dimensions) {
	v.scene.volumeMap.Get(v.entity).Size = size
}

func (v *Volume) InUse() bool {
	return v.scene.volumeMap.Get(v.entity).InUse
}

func (v *Volume) SetInUse(inUse bool) {
	v.scene.volumeMap.Get(v.entity).InUse = inUse
}

// Segment is a handle to a rendered segment entity. It implements lightning.Segment.
type Segment struct {
	scene    *Scene
	entity   ecs.Entity
	released bool
}

// Place positions and sizes the segment.
func (s *Segment) Place(frame geom.Frame, size r3.Vec) {
	if s.released {
		return
	}
	tr, seg := s.scene.segmentMapper.Get(s.entity)
	tr.Frame = frame
	seg.Size = size
}

// SetColor changes the segment's tint.
func (s *Segment) SetColor(c color.RGBA) {
	if s.released {
		return
	}
	_, seg := s.scene.segmentMapper.Get(s.entity)
	seg.Color = c
}

// Frame returns the segment's current placement.
func (s *Segment) Frame() geom.Frame {
	return s.scene.transformMap.Get(s.entity).Frame
}

// Size returns the segment's current size.
func (s *Segment) Size() r3.Vec {
	_, seg := s.scene.segmentMapper.Get(s.entity)
	return seg.Size
}

// Release removes the segment from the scene. Further calls are no-ops.
func (s *Segment) Release() {
	if s.released {
		return
	}
	s.released = true
	s.scene.world.RemoveEntity(s.entity)
	s.scene.segments--
}

// Anchor is a named, positioned object with change subscriptions.
// It implements lightning.Anchor and octfield.PositionSource.
type Anchor struct {
	scene  *Scene
	entity ecs.Entity
	name   string

	subs   map[int]func(r3.Vec)
	nextID int
}

// NewAnchor creates an anchor at frame. Names are unique; an existing anchor
// with the same name is returned unchanged.
func (s *Scene) NewAnchor(name string, frame geom.Frame) *Anchor {
	if a, ok := s.anchors[name]; ok {
		return a
	}
	tr := components.Transform{Frame: frame}
	tag := components.Anchor{Name: name}
	e := s.anchorMapper.NewEntity(&tr, &tag)
	a := &Anchor{scene: s, entity: e, name: name, subs: make(map[int]func(r3.Vec))}
	s.anchors[name] = a
	return a
}

// Anchor looks up an anchor by name.
func (s *Scene) Anchor(name string) (*Anchor, bool) {
	a, ok := s.anchors[name]
	return a, ok
}

// Anchors returns every anchor keyed by name.
func (s *Scene) Anchors() map[string]*Anchor {
	return s.anchors
}

// Name returns the anchor's name.
func (a *Anchor) Name() string {
	return a.name
}

// Position returns the world position.
func (a *Anchor) Position() r3.Vec {
	return a.scene.transformMap.Get(a.entity).Frame.Position
}

// Basis returns the orientation basis.
func (a *Anchor) Basis() geom.Basis {
	return a.scene.transformMap.Get(a.entity).Frame.Basis()
}

// SetPosition moves the anchor and notifies subscribers.
func (a *Anchor) SetPosition(p r3.Vec) {
	a.scene.transformMap.Get(a.entity).Frame.Position = p
	for _, fn := range a.subs {
		fn(p)
	}
}

// SetFrame replaces position and orientation and notifies subscribers.
func (a *Anchor) SetFrame(f geom.Frame) {
	a.scene.transformMap.Get(a.entity).Frame = f
	for _, fn := range a.subs {
		fn(f.Position)
	}
}

// Subscribe registers fn for position changes. The returned func cancels it.
func (a *Anchor) Subscribe(fn func(r3.Vec)) (cancel func()) {
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	return func() {
		delete(a.subs, id)
	}
}

// Subscribers returns the number of live subscriptions.
func (a *Anchor) Subscribers() int {
	return len(a.subs)
}

// Orbit attaches or replaces circular motion on the anchor; Step advances it.
func (a *Anchor) Orbit(o components.Orbit) {
	if a.scene.orbitMap.HasAll(a.entity) {
		*a.scene.orbitMap.Get(a.entity) = o
		return
	}
	a.scene.orbitMap.Add(a.entity, &o)
}

// StopOrbit removes circular motion from the anchor.
func (a *Anchor) StopOrbit() {
	if a.scene.orbitMap.HasAll(a.entity) {
		a.scene.orbitMap.Remove(a.entity)
	}
}
