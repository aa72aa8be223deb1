// Package game wires the bolt scene together: it builds the scene from config,
// owns the registry of bolts and fields, and drives them once per tick.
package game

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/pthm-cable/arclight/camera"
	"github.com/pthm-cable/arclight/config"
	"github.com/pthm-cable/arclight/lightning"
	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/probe"
	"github.com/pthm-cable/arclight/renderer"
	"github.com/pthm-cable/arclight/scene"
	"github.com/pthm-cable/arclight/telemetry"
	"github.com/pthm-cable/arclight/ui"
)

// Options configures a game instance.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64          // 0 uses the config seed
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// fieldState is a field built from config plus the anchors it tracks.
type fieldState struct {
	name    string
	field   *octfield.Field
	tracked map[octfield.Handle]*scene.Anchor
}

// fieldChange is a reclassification waiting for the fields phase.
type fieldChange struct {
	field string
	octfield.Change
}

// Game holds the complete scene state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	scene    *scene.Scene
	querier  *probe.Querier
	registry *Registry
	driver   *Driver

	bolts    map[string]uuid.UUID
	boltCfgs map[string]config.BoltConfig
	failing  map[uuid.UUID]bool
	fields   []*fieldState

	changesMu sync.Mutex
	changes   []fieldChange

	reloads chan *config.Config

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// Rendering (nil when headless)
	camera     *camera.Camera
	sceneView  *renderer.SceneRenderer
	background *renderer.BackgroundRenderer
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	fieldPanel *ui.FieldPanel
	overlays   renderer.Overlays
	showPerf   bool

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	boltErrors     int
}

// NewGameWithOptions builds the scene described by the config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Seed
	}

	g := &Game{
		rng:            rand.New(rand.NewSource(seed)),
		registry:       NewRegistry(),
		failing:        make(map[uuid.UUID]bool),
		reloads:        make(chan *config.Config, 1),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}
	g.driver = NewDriver(g.registry)
	g.driver.OnUpdate = g.onBoltUpdate

	if err := g.build(cfg); err != nil {
		g.registry.Close()
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.registry.Close()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("scene built",
		"seed", seed,
		"anchors", len(cfg.Anchors),
		"bolts", len(cfg.Bolts),
		"fields", len(cfg.Fields),
		"probes", g.querier.Size(),
	)
	return g, nil
}

// RequestReload queues cfg to be applied at the start of the next tick. It is
// safe to call from any goroutine; a newer request replaces an unapplied one.
func (g *Game) RequestReload(cfg *config.Config) {
	for {
		select {
		case g.reloads <- cfg:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

// Update handles input and runs the configured number of ticks.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
	g.perfCollector.RecordFrame()
}

// UpdateHeadless runs ticks without input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseConfig)
	g.applyPendingReload()

	// Anchor motion notifies fields synchronously.
	g.perfCollector.StartPhase(telemetry.PhaseAnchors)
	g.scene.Step(g.cfg.Driver.DT)

	g.perfCollector.StartPhase(telemetry.PhaseBolts)
	if err := g.driver.Tick(); err != nil {
		slog.Debug("bolt update", "tick", g.tick, "error", err)
	}
	elapsed := g.SimTime()
	for _, b := range g.registry.bolts {
		b.Recolor(elapsed)
	}

	g.perfCollector.StartPhase(telemetry.PhaseFields)
	records := g.drainChanges()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if err := g.outputManager.WriteClassifications(records); err != nil {
		slog.Error("failed to write classifications", "error", err)
	}
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

func (g *Game) onBoltUpdate(b *lightning.Bolt, err error) {
	g.collector.RecordBoltUpdate(err)
	if err != nil {
		g.boltErrors++
	}

	failing := err != nil
	if failing == g.failing[b.ID()] {
		return
	}
	g.failing[b.ID()] = failing
	if failing {
		slog.Warn("bolt geometry degenerate", "bolt", g.boltName(b.ID()), "error", err)
	} else {
		slog.Info("bolt recovered", "bolt", g.boltName(b.ID()))
	}
}

func (g *Game) boltName(id uuid.UUID) string {
	for name, bid := range g.bolts {
		if bid == id {
			return name
		}
	}
	return id.String()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return float64(g.tick) * g.cfg.Driver.DT
}

// Scene exposes the host scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Registry exposes the bolt and field registry.
func (g *Game) Registry() *Registry {
	return g.registry
}

// Config returns the config currently in effect.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Bolt looks up a bolt by its config name.
func (g *Game) Bolt(name string) (*lightning.Bolt, bool) {
	id, ok := g.bolts[name]
	if !ok {
		return nil, false
	}
	return g.registry.Bolt(id)
}

// Field looks up a field by its config name.
func (g *Game) Field(name string) (*octfield.Field, bool) {
	for _, fs := range g.fields {
		if fs.name == name {
			return fs.field, true
		}
	}
	return nil, false
}

// Unload tears down bolts, fields and output files.
func (g *Game) Unload() {
	g.registry.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
