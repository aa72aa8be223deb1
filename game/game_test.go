package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/arclight/config"
	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/telemetry"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func newHeadless(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Config = cfg
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func expectedSegments(cfg *config.Config) int {
	n := 0
	for _, b := range cfg.Bolts {
		n += b.VertexCount - 1
	}
	return n
}

func TestHeadlessRun(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Telemetry.StatsWindow = 10

	var windows []telemetry.WindowStats
	g := newHeadless(t, cfg, Options{StatsCallback: func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}})

	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 30 {
		t.Fatalf("tick = %d, want 30", g.Tick())
	}
	if got, want := g.Scene().SegmentCount(), expectedSegments(cfg); got != want {
		t.Errorf("segments = %d, want %d", got, want)
	}
	if len(windows) != 3 {
		t.Fatalf("stats windows = %d, want 3", len(windows))
	}
	if got := windows[0].BoltUpdates; got != 10*len(cfg.Bolts) {
		t.Errorf("bolt updates in first window = %d", got)
	}
	if g.boltErrors != 0 {
		t.Errorf("bolt errors = %d", g.boltErrors)
	}
	if g.querier.InUse() != 0 {
		t.Errorf("probes leaked: %d in use", g.querier.InUse())
	}

	for _, fs := range g.fields {
		for h := range fs.tracked {
			code, ok := fs.field.Code(h)
			if !ok {
				t.Fatalf("tracked handle %d missing", h)
			}
			if !octfield.ValidCode(code) || octfield.Depth(code) > fs.field.Nests() {
				t.Errorf("field %s: invalid code %q", fs.name, code)
			}
		}
	}
}

func TestOrbitingAnchorIsReclassified(t *testing.T) {
	cfg := loadDefaults(t)
	g := newHeadless(t, cfg, Options{})

	f, ok := g.Field("arena")
	if !ok {
		t.Fatal("arena field missing")
	}

	var wisp octfield.Handle
	found := false
	for _, fs := range g.fields {
		for h, a := range fs.tracked {
			if a.Name() == "wisp" {
				wisp, found = h, true
			}
		}
	}
	if !found {
		t.Fatal("wisp is not tracked")
	}

	seen := map[string]bool{}
	for i := 0; i < 600; i++ {
		g.UpdateHeadless()
		code, _ := f.Code(wisp)
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Errorf("orbiting anchor kept a single code: %v", seen)
	}
}

func TestReload(t *testing.T) {
	cfg := loadDefaults(t)
	g := newHeadless(t, cfg, Options{})
	g.UpdateHeadless()

	strike, _ := g.Bolt("strike")
	id := strike.ID()

	// shape-only change reshapes in place
	next := loadDefaults(t)
	next.Bolts[0].Radius = 3.5
	g.RequestReload(next)
	g.UpdateHeadless()

	strike, ok := g.Bolt("strike")
	if !ok || strike.ID() != id {
		t.Fatal("shape change should keep the same bolt")
	}
	if strike.Radius() != 3.5 {
		t.Errorf("radius = %v, want 3.5", strike.Radius())
	}

	// structural change rebuilds, removal destroys
	next = loadDefaults(t)
	next.Bolts[0].VertexCount = 20
	next.Bolts = next.Bolts[:1]
	g.RequestReload(next)
	g.UpdateHeadless()

	strike, _ = g.Bolt("strike")
	if strike.ID() == id {
		t.Error("vertex count change should rebuild the bolt")
	}
	if _, ok := g.Bolt("tether"); ok {
		t.Error("tether should be removed")
	}
	if got := g.Scene().SegmentCount(); got != 19 {
		t.Errorf("segments = %d, want 19", got)
	}
	if len(g.Registry().Fields()) != len(next.Fields) {
		t.Errorf("fields = %d, want %d", len(g.Registry().Fields()), len(next.Fields))
	}

	// a field that cannot be built rejects the whole reload
	applied := g.Config()
	arena, _ := g.Field("arena")
	strike, _ = g.Bolt("strike")
	boltID := strike.ID()

	bad := loadDefaults(t)
	bad.Bolts[0].VertexCount = 9
	bad.Fields[0].Size = config.Vec3{}
	g.RequestReload(bad)
	g.UpdateHeadless()

	if g.Config() != applied {
		t.Error("rejected reload should keep the applied config")
	}
	if f, ok := g.Field("arena"); !ok || f != arena {
		t.Fatal("rejected reload should keep the live field")
	}
	if arena.Len() != len(applied.Fields[0].Track) {
		t.Errorf("arena tracks %d anchors, want %d", arena.Len(), len(applied.Fields[0].Track))
	}
	if strike, _ = g.Bolt("strike"); strike.ID() != boltID {
		t.Error("rejected reload should not rebuild bolts")
	}
	if len(g.Registry().Fields()) != len(applied.Fields) {
		t.Errorf("registry fields = %d, want %d", len(g.Registry().Fields()), len(applied.Fields))
	}
}

func TestRequestReloadKeepsLatest(t *testing.T) {
	cfg := loadDefaults(t)
	g := newHeadless(t, cfg, Options{})

	first := loadDefaults(t)
	first.Bolts[0].Funkiness = 0.1
	second := loadDefaults(t)
	second.Bolts[0].Funkiness = 0.9

	g.RequestReload(first)
	g.RequestReload(second)
	g.UpdateHeadless()

	strike, _ := g.Bolt("strike")
	if strike.Funkiness() != 0.9 {
		t.Errorf("funkiness = %v, want the latest request", strike.Funkiness())
	}
}

func TestClassificationOutput(t *testing.T) {
	cfg := loadDefaults(t)
	dir := t.TempDir()
	g, err := NewGameWithOptions(Options{Config: cfg, Headless: true, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "classifications.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "arena,wisp") {
		t.Errorf("classifications missing the wisp anchor:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
