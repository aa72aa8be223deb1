package probe

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/geom"
)

type fakeVolume struct {
	name  string
	size  geom.Dimensions
	inUse bool
}

func (v *fakeVolume) Name() string                { return v.name }
func (v *fakeVolume) Resize(size geom.Dimensions) { v.size = size }
func (v *fakeVolume) InUse() bool                 { return v.inUse }
func (v *fakeVolume) SetInUse(inUse bool)         { v.inUse = inUse }

// originCaster treats every volume as an AABB centered on the origin.
type originCaster struct {
	casts int
}

func (c *originCaster) Raycast(origin, _ r3.Vec, f Filter) (Volume, bool) {
	c.casts++
	v, ok := f.Include.(*fakeVolume)
	if !ok {
		return nil, false
	}
	if math.Abs(origin.X) <= v.size.X/2 &&
		math.Abs(origin.Y) <= v.size.Y/2 &&
		math.Abs(origin.Z) <= v.size.Z/2 {
		return v, true
	}
	return nil, false
}

func newPool(n int) []Volume {
	vols := make([]Volume, n)
	for i := range vols {
		vols[i] = &fakeVolume{name: "probe"}
	}
	return vols
}

func TestContains(t *testing.T) {
	size := geom.Dimensions{X: 2, Y: 2, Z: 2}
	tests := []struct {
		name  string
		point r3.Vec
		want  Result
	}{
		{"origin", r3.Vec{}, Inside},
		{"near face", r3.Vec{X: 0.99}, Inside},
		{"outside x", r3.Vec{X: 1.5}, Outside},
		{"outside corner", r3.Vec{X: 0.9, Y: 0.9, Z: 1.1}, Outside},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQuerier(&originCaster{}, newPool(2), nil)
			got, v := q.Contains(tc.point, size)
			if got != tc.want {
				t.Fatalf("Contains(%v) = %v, want %v", tc.point, got, tc.want)
			}
			if got == Inside && (v == nil || !v.InUse()) {
				t.Error("inside result should hand back a held volume")
			}
			if got == Outside && q.InUse() != 0 {
				t.Errorf("outside result leaked %d volumes", q.InUse())
			}
		})
	}
}

func TestContains_HeldUntilReleased(t *testing.T) {
	q := NewQuerier(&originCaster{}, newPool(2), nil)
	size := geom.Dimensions{X: 1, Y: 1, Z: 1}

	_, a := q.Contains(r3.Vec{}, size)
	_, b := q.Contains(r3.Vec{}, size)
	if a == b {
		t.Fatal("two held queries should use distinct volumes")
	}
	if q.InUse() != 2 {
		t.Fatalf("in use = %d, want 2", q.InUse())
	}

	q.Release(a)
	q.Release(b)
	if q.InUse() != 0 {
		t.Errorf("in use after release = %d", q.InUse())
	}
}

func TestContains_PlaceholderFallback(t *testing.T) {
	placeholder := &fakeVolume{name: "placeholder"}
	q := NewQuerier(&originCaster{}, newPool(1), placeholder)
	size := geom.Dimensions{X: 1, Y: 1, Z: 1}

	_, held := q.Contains(r3.Vec{}, size)
	if held == Volume(placeholder) {
		t.Fatal("first query should take the pooled volume")
	}

	res, v := q.Contains(r3.Vec{}, size)
	if res != Inside || v != Volume(placeholder) {
		t.Errorf("exhausted pool should fall back to placeholder, got %v %v", res, v)
	}
}

func TestContains_Unavailable(t *testing.T) {
	caster := &originCaster{}
	q := NewQuerier(caster, nil, nil)

	res, v := q.Contains(r3.Vec{}, geom.Dimensions{X: 1, Y: 1, Z: 1})
	if res != Unavailable || v != nil {
		t.Errorf("got %v %v, want unavailable", res, v)
	}
	if caster.casts != 0 {
		t.Error("no cast should happen without a volume")
	}
}

func TestPoolConservation_Concurrent(t *testing.T) {
	const poolSize = 4
	q := NewQuerier(&lockedCaster{}, newPool(poolSize), nil)
	size := geom.Dimensions{X: 1, Y: 1, Z: 1}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := r3.Vec{X: float64((i+g)%3) - 1}
				res, v := q.Contains(p, size)
				if n := q.InUse(); n > poolSize {
					t.Errorf("in use %d exceeds pool size", n)
				}
				if res == Inside {
					q.Release(v)
				}
			}
		}(g)
	}
	wg.Wait()

	if q.InUse() != 0 {
		t.Errorf("in use after all releases = %d", q.InUse())
	}
}

// lockedCaster serializes access to volume sizes for the concurrent test.
type lockedCaster struct {
	mu sync.Mutex
	originCaster
}

func (c *lockedCaster) Raycast(origin, dir r3.Vec, f Filter) (Volume, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.originCaster.Raycast(origin, dir, f)
}

// turnCaster counts casts that overlap in time.
type turnCaster struct {
	originCaster
	active, overlaps atomic.Int32
}

func (c *turnCaster) Raycast(origin, dir r3.Vec, f Filter) (Volume, bool) {
	if c.active.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	defer c.active.Add(-1)
	runtime.Gosched()
	v, ok := f.Include.(*fakeVolume)
	if !ok {
		return nil, false
	}
	if math.Abs(origin.X) <= v.size.X/2 {
		return v, true
	}
	return nil, false
}

func TestContains_PlaceholderTakesTurns(t *testing.T) {
	placeholder := &fakeVolume{name: "placeholder"}
	caster := &turnCaster{}
	q := NewQuerier(caster, nil, placeholder)

	var wg sync.WaitGroup
	var outside atomic.Int32
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			// each goroutine's point is inside its own size but outside every smaller one
			half := float64(g + 1)
			size := geom.Dimensions{X: 2 * half, Y: 2 * half, Z: 2 * half}
			for i := 0; i < 100; i++ {
				if res, _ := q.Contains(r3.Vec{X: half - 0.5}, size); res != Inside {
					outside.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	if n := caster.overlaps.Load(); n != 0 {
		t.Errorf("%d casts against the placeholder overlapped", n)
	}
	if n := outside.Load(); n != 0 {
		t.Errorf("%d queries saw another query's size", n)
	}
}

func TestResultString(t *testing.T) {
	if Inside.String() != "inside" || Outside.String() != "outside" || Unavailable.String() != "unavailable" {
		t.Error("unexpected Result strings")
	}
}
