// Package octfield classifies points inside a box into hierarchical octant
// path codes and keeps those codes current as the points move.
package octfield

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
	"github.com/pthm-cable/arclight/probe"
)

var (
	ErrDistance      = errors.New("octfield: target distance must be positive")
	ErrDegenerateBox = errors.New("octfield: box has zero diagonal")
	ErrNoQuerier     = errors.New("octfield: containment querier is required")
)

// Handle identifies a tracked object.
type Handle uint32

// Outcome reports what a position update did.
type Outcome uint8

const (
	Classified   Outcome = iota // a non-empty code was assigned
	Unclassified                // no octant matched at any level
	Unavailable                 // a containment query could not acquire a probe
	Skipped                     // unknown handle or missing position; nothing changed
)

func (o Outcome) String() string {
	switch o {
	case Classified:
		return "classified"
	case Unclassified:
		return "unclassified"
	case Unavailable:
		return "unavailable"
	default:
		return "skipped"
	}
}

// PositionSource is an object whose position changes can be observed.
type PositionSource interface {
	Position() r3.Vec
	Subscribe(fn func(r3.Vec)) (cancel func())
}

// Change describes one reclassification.
type Change struct {
	Handle   Handle
	Previous string
	Code     string
	Outcome  Outcome
}

// Option configures a Field.
type Option func(*Field)

// WithObserver registers fn to receive every reclassification that was not
// skipped. fn runs after the field lock is released.
func WithObserver(fn func(Change)) Option {
	return func(f *Field) {
		f.observer = fn
	}
}

type object struct {
	code   string
	cancel func()
}

// Field is a recursively subdivided box that tracks point classifications.
type Field struct {
	id uuid.UUID

	mu sync.Mutex

	brCorner   r3.Vec
	tlCorner   r3.Vec
	center     r3.Vec
	dimensions geom.Dimensions
	nests      int

	querier *probe.Querier

	objects map[Handle]*object
	order   []Handle
	next    Handle
	unused  []string

	observer func(Change)
}

// New creates a field covering box. Its depth is the number of halvings needed
// for the box diagonal to drop below distance.
func New(box geom.Box, distance float64, q *probe.Querier, opts ...Option) (*Field, error) {
	if distance <= 0 || math.IsNaN(distance) {
		return nil, fmt.Errorf("%w: got %v", ErrDistance, distance)
	}
	if q == nil {
		return nil, ErrNoQuerier
	}

	br, tl := CornersOfShape(box)
	f := &Field{
		id:         uuid.New(),
		brCorner:   br,
		tlCorner:   tl,
		center:     geom.Center(br, tl),
		dimensions: geom.PrismDimensions(br, tl),
		querier:    q,
		objects:    make(map[Handle]*object),
	}

	diagonal := r3.Norm(r3.Sub(tl, br))
	if diagonal == 0 {
		return nil, ErrDegenerateBox
	}
	f.nests = RecommendedNests(diagonal, distance)
	f.unused = allCodes(min(f.nests, PoolDepthLimit))
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// RecommendedNests returns ceil(log2(diagonal/distance)), never below zero.
func RecommendedNests(diagonal, distance float64) int {
	n := int(math.Ceil(math.Log2(diagonal / distance)))
	if n < 0 {
		return 0
	}
	return n
}

// CornersOfShape returns the world-space box vertices of smallest and largest
// magnitude. Ties for the largest are broken toward the vertex farthest from
// the smallest, so a box centered on the origin yields opposite corners.
func CornersOfShape(box geom.Box) (smallest, largest r3.Vec) {
	vertices := geom.PrismVertices(box.Size)
	for i := range vertices {
		vertices[i] = r3.Add(vertices[i], box.Position)
	}

	smallest = vertices[0]
	for _, v := range vertices[1:] {
		if r3.Norm(v) < r3.Norm(smallest) {
			smallest = v
		}
	}

	largest = smallest
	for _, v := range vertices {
		mag, best := r3.Norm(v), r3.Norm(largest)
		switch {
		case mag > best:
			largest = v
		case mag == best && r3.Norm(r3.Sub(v, smallest)) > r3.Norm(r3.Sub(largest, smallest)):
			largest = v
		}
	}
	return smallest, largest
}

// SearchBox computes the path code for pos. Levels where no octant matches are
// omitted, so the code may be shorter than Nests.
func (f *Field) SearchBox(pos r3.Vec) (string, probe.Result) {
	code := make([]byte, 0, f.nests*symbolLen)
	result := probe.Outside
	running := f.center

	for level := 0; level < f.nests; level++ {
		dims := f.dimensions.Scale(math.Pow(2, float64(level+1)))
		vertices := geom.PrismVertices(dims)
		for i := range vertices {
			vertices[i] = r3.Add(f.center, vertices[i])
		}

		for i, vertex := range vertices {
			running = geom.Center(running, vertex)
			res, vol := f.querier.Contains(r3.Sub(pos, running), dims)
			if res == probe.Unavailable {
				result = probe.Unavailable
				continue
			}
			if res != probe.Inside {
				continue
			}
			f.querier.Release(vol)
			code = append(code, Alphabet[i]...)
			if result != probe.Unavailable {
				result = probe.Inside
			}
			break
		}
	}
	return string(code), result
}

// Insert tracks a point with no change subscription and classifies it.
func (f *Field) Insert(pos r3.Vec) (Handle, Outcome) {
	f.mu.Lock()
	h := f.register(nil)
	f.mu.Unlock()

	return h, f.OnPositionChanged(h, pos)
}

// Track subscribes to src's position changes and classifies its current position.
// Remove or Destroy cancels the subscription.
func (f *Field) Track(src PositionSource) (Handle, Outcome) {
	f.mu.Lock()
	h := f.register(nil)
	f.mu.Unlock()

	cancel := src.Subscribe(func(p r3.Vec) {
		f.OnPositionChanged(h, p)
	})

	f.mu.Lock()
	if obj, ok := f.objects[h]; ok {
		obj.cancel = cancel
	}
	f.mu.Unlock()

	return h, f.OnPositionChanged(h, src.Position())
}

func (f *Field) register(cancel func()) Handle {
	h := f.next
	f.next++
	f.objects[h] = &object{cancel: cancel}
	f.order = append(f.order, h)
	return h
}

// OnPositionChanged reclassifies the object. If its code changes, the previous
// non-empty code is pushed onto the unused pool. The new code is not taken out
// of the pool, so the pool behaves as a multiset of released codes.
func (f *Field) OnPositionChanged(h Handle, pos r3.Vec) Outcome {
	if !geom.Finite(pos) {
		return Skipped
	}

	change, ok := f.reclassify(h, pos)
	if !ok {
		return Skipped
	}
	if f.observer != nil {
		f.observer(change)
	}
	return change.Outcome
}

func (f *Field) reclassify(h Handle, pos r3.Vec) (Change, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[h]
	if !ok {
		return Change{}, false
	}

	previous := obj.code
	code, res := f.SearchBox(pos)
	obj.code = code
	// The empty code is not a cell, so it is never pooled.
	if previous != code && previous != "" {
		f.unused = append(f.unused, previous)
	}

	change := Change{Handle: h, Previous: previous, Code: code}
	switch {
	case res == probe.Unavailable:
		change.Outcome = Unavailable
	case code == "":
		change.Outcome = Unclassified
	default:
		change.Outcome = Classified
	}
	return change, true
}

// Destroy stops tracking every object holding code and returns the code to the
// pool once per removed object. It returns how many objects were removed.
func (f *Field) Destroy(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	kept := f.order[:0]
	for _, h := range f.order {
		obj := f.objects[h]
		if obj.code != code {
			kept = append(kept, h)
			continue
		}
		f.drop(h, obj)
		f.unused = append(f.unused, code)
		removed++
	}
	f.order = kept
	return removed
}

// Remove stops tracking a single object. Its code, if any, returns to the pool.
func (f *Field) Remove(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[h]
	if !ok {
		return false
	}
	f.drop(h, obj)
	if obj.code != "" {
		f.unused = append(f.unused, obj.code)
	}
	for i, oh := range f.order {
		if oh == h {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

func (f *Field) drop(h Handle, obj *object) {
	if obj.cancel != nil {
		obj.cancel()
	}
	delete(f.objects, h)
}

// Close cancels every subscription and forgets all tracked objects.
func (f *Field) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, h := range f.order {
		f.drop(h, f.objects[h])
	}
	f.order = nil
}

// Code returns the current code of a tracked object.
func (f *Field) Code(h Handle) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[h]
	if !ok {
		return "", false
	}
	return obj.code, true
}

// Codes returns the current code of every tracked object.
func (f *Field) Codes() map[Handle]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[Handle]string, len(f.objects))
	for h, obj := range f.objects {
		out[h] = obj.code
	}
	return out
}

// ID returns the field's unique identifier.
func (f *Field) ID() uuid.UUID { return f.id }

// Nests returns the recursion depth.
func (f *Field) Nests() int { return f.nests }

// Center returns the box center.
func (f *Field) Center() r3.Vec { return f.center }

// Dimensions returns the box extents.
func (f *Field) Dimensions() geom.Dimensions { return f.dimensions }

// Corners returns the two defining corners.
func (f *Field) Corners() (br, tl r3.Vec) { return f.brCorner, f.tlCorner }

// Len returns the number of tracked objects.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// Pool returns the number of codes in the unused pool.
func (f *Field) Pool() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unused)
}

// PoolCount returns how many times code appears in the unused pool.
func (f *Field) PoolCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.unused {
		if c == code {
			n++
		}
	}
	return n
}
