// Package probe answers point-in-prism queries by casting against pooled,
// resizable collision volumes owned by the host scene.
package probe

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

// Reach is the direction cast from the query point. It is short enough that a
// hit only happens when the point already lies inside the volume.
var Reach = r3.Vec{X: 1e-12, Y: 1e-12, Z: 1e-12}

// Result is the outcome of a containment query.
type Result uint8

const (
	Outside     Result = iota // point is not in the prism
	Inside                    // point is in the prism
	Unavailable               // no volume could be acquired
)

func (r Result) String() string {
	switch r {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	default:
		return "unavailable"
	}
}

// Volume is a pooled collision primitive owned by the scene.
type Volume interface {
	Name() string
	Resize(size geom.Dimensions)
	InUse() bool
	SetInUse(inUse bool)
}

// Filter restricts a cast to a single volume.
type Filter struct {
	Include Volume
}

// Caster performs ray intersection against the scene.
type Caster interface {
	// Raycast returns the first volume passing the filter hit by the ray.
	Raycast(origin, direction r3.Vec, filter Filter) (Volume, bool)
}

// Querier hands out pooled volumes and resolves containment through a Caster.
// Scanning and marking the pool happens under a mutex, so a pooled volume is
// never held by two queries at once. The placeholder is shared: queries that
// fall back to it take turns resizing and casting against it.
type Querier struct {
	mu          sync.Mutex
	volumes     []Volume
	placeholder Volume
	caster      Caster

	placeholderMu sync.Mutex
}

// NewQuerier creates a querier over the given pool. placeholder may be nil.
func NewQuerier(caster Caster, volumes []Volume, placeholder Volume) *Querier {
	return &Querier{
		volumes:     volumes,
		placeholder: placeholder,
		caster:      caster,
	}
}

// Contains reports whether point lies inside a prism of the given size centered
// at the origin. On Inside the volume stays marked in use and is returned so the
// caller can Release it; on Outside it is released before returning.
func (q *Querier) Contains(point r3.Vec, size geom.Dimensions) (Result, Volume) {
	v, shared := q.acquire()
	if v == nil {
		return Unavailable, nil
	}

	if shared {
		q.placeholderMu.Lock()
	}
	v.Resize(size)
	hit, ok := q.caster.Raycast(point, Reach, Filter{Include: v})
	if shared {
		q.placeholderMu.Unlock()
	}
	if ok && hit == v {
		return Inside, v
	}

	q.Release(v)
	return Outside, nil
}

// acquire marks the first free volume in use, falling back to the shared
// placeholder.
func (q *Querier) acquire() (v Volume, shared bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, v := range q.volumes {
		if v.InUse() {
			continue
		}
		v.SetInUse(true)
		return v, false
	}
	return q.placeholder, q.placeholder != nil
}

// Release returns a volume to the pool.
func (q *Querier) Release(v Volume) {
	if v == nil {
		return
	}
	q.mu.Lock()
	v.SetInUse(false)
	q.mu.Unlock()
}

// InUse counts pooled volumes currently held.
func (q *Querier) InUse() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, v := range q.volumes {
		if v.InUse() {
			n++
		}
	}
	return n
}

// Size returns the number of pooled volumes, excluding the placeholder.
func (q *Querier) Size() int {
	return len(q.volumes)
}
