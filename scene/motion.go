package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/components"
)

type move struct {
	anchor *Anchor
	pos    r3.Vec
}

// Step advances every orbiting anchor by dt seconds. Subscribers are notified
// after the query completes.
func (s *Scene) Step(dt float64) {
	var moves []move

	query := s.orbitFilter.Query()
	for query.Next() {
		e := query.Entity()
		tr, orbit := query.Get()

		orbit.Phase = math.Mod(orbit.Phase+orbit.Speed*dt, 2*math.Pi)
		pos := r3.Vec{
			X: orbit.Pivot.X + orbit.Radius*math.Cos(orbit.Phase),
			Y: tr.Frame.Position.Y,
			Z: orbit.Pivot.Z + orbit.Radius*math.Sin(orbit.Phase),
		}
		for _, a := range s.anchors {
			if a.entity == e {
				moves = append(moves, move{anchor: a, pos: pos})
				break
			}
		}
	}

	for _, m := range moves {
		m.anchor.SetPosition(m.pos)
	}
}

// OrbitOf returns the anchor's orbit, if any.
func (s *Scene) OrbitOf(a *Anchor) (components.Orbit, bool) {
	if !s.orbitMap.HasAll(a.entity) {
		return components.Orbit{}, false
	}
	return *s.orbitMap.Get(a.entity), true
}
