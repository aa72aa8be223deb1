package game

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/pthm-cable/arclight/components"
	"github.com/pthm-cable/arclight/config"
	"github.com/pthm-cable/arclight/geom"
	"github.com/pthm-cable/arclight/lightning"
	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/scene"
)

// build creates the scene, bolts and fields for cfg.
func (g *Game) build(cfg *config.Config) error {
	g.cfg = cfg
	g.scene = scene.New()
	g.scene.AddVolumes(cfg.Probes.Count)
	if cfg.Probes.Placeholder {
		g.scene.SetPlaceholder()
	}
	g.querier = g.scene.Querier()
	g.bolts = make(map[string]uuid.UUID)
	g.boltCfgs = make(map[string]config.BoltConfig)

	for _, ac := range cfg.Anchors {
		g.placeAnchor(ac)
	}
	for _, bc := range cfg.Bolts {
		if err := g.addBolt(cfg, bc); err != nil {
			return err
		}
	}
	for _, fc := range cfg.Fields {
		if err := g.addField(fc); err != nil {
			return err
		}
	}
	return nil
}

// placeAnchor creates the anchor or moves an existing one, and sets its orbit.
func (g *Game) placeAnchor(ac config.AnchorConfig) *scene.Anchor {
	pos := ac.Position.R3()
	a, exists := g.scene.Anchor(ac.Name)
	if !exists {
		a = g.scene.NewAnchor(ac.Name, geom.NewFrame(pos))
	} else if a.Position() != pos {
		a.SetPosition(pos)
	}

	if ac.Orbit == nil {
		a.StopOrbit()
		return a
	}
	pivot := ac.Orbit.Pivot.R3()
	a.Orbit(components.Orbit{
		Pivot:  pivot,
		Radius: ac.Orbit.Radius,
		Speed:  ac.Orbit.Speed,
		Phase:  math.Atan2(pos.Z-pivot.Z, pos.X-pivot.X),
	})
	return a
}

func (g *Game) addBolt(cfg *config.Config, bc config.BoltConfig) error {
	one, ok := g.scene.Anchor(bc.From)
	if !ok {
		return fmt.Errorf("bolt %q: unknown anchor %q", bc.Name, bc.From)
	}
	two, ok := g.scene.Anchor(bc.To)
	if !ok {
		return fmt.Errorf("bolt %q: unknown anchor %q", bc.Name, bc.To)
	}

	b, err := lightning.New(lightning.Params{
		VertexCount:    bc.VertexCount,
		Funkiness:      bc.Funkiness,
		Radius:         bc.Radius,
		CycleRate:      bc.CycleRate,
		Cycles:         bc.Cycles,
		ColorRange:     cfg.Derived.BoltColors[bc.Name],
		ColorSpeed:     bc.ColorSpeed,
		NoiseIncrement: bc.NoiseIncrement,
		FBM:            bc.FBM,
		One:            one,
		Two:            two,
		Noise:          geom.NewNoise(cfg.Noise.Kind, g.rng.Int63()),
		Rand:           g.rng,
	}, g.scene)
	if err != nil {
		return fmt.Errorf("bolt %q: %w", bc.Name, err)
	}

	g.registry.AddBolt(b)
	g.bolts[bc.Name] = b.ID()
	g.boltCfgs[bc.Name] = bc
	return nil
}

func (g *Game) removeBolt(name string) {
	if id, ok := g.bolts[name]; ok {
		g.registry.RemoveBolt(id)
		delete(g.failing, id)
	}
	delete(g.bolts, name)
	delete(g.boltCfgs, name)
}

func (g *Game) addField(fc config.FieldConfig) error {
	fs, err := g.newField(fc)
	if err != nil {
		return err
	}
	return g.installField(fs, fc)
}

// newField constructs the field without tracking anything yet.
func (g *Game) newField(fc config.FieldConfig) (*fieldState, error) {
	name := fc.Name
	f, err := octfield.New(fc.Box(), fc.Distance, g.querier, octfield.WithObserver(func(c octfield.Change) {
		g.changesMu.Lock()
		g.changes = append(g.changes, fieldChange{field: name, Change: c})
		g.changesMu.Unlock()
	}))
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return &fieldState{name: name, field: f, tracked: make(map[octfield.Handle]*scene.Anchor)}, nil
}

// installField tracks the configured anchors and registers the field.
func (g *Game) installField(fs *fieldState, fc config.FieldConfig) error {
	for _, anchorName := range fc.Track {
		a, ok := g.scene.Anchor(anchorName)
		if !ok {
			fs.field.Close()
			return fmt.Errorf("field %q: unknown anchor %q", fs.name, anchorName)
		}
		h, _ := fs.field.Track(a)
		fs.tracked[h] = a
	}

	g.registry.AddField(fs.field)
	g.fields = append(g.fields, fs)
	slog.Debug("field built", "field", fs.name, "nests", fs.field.Nests(), "pool", fs.field.Pool())
	return nil
}

// applyPendingReload applies the most recent queued config, if any.
func (g *Game) applyPendingReload() {
	select {
	case cfg := <-g.reloads:
		if err := g.apply(cfg); err != nil {
			slog.Error("config reload rejected", "error", err)
		}
	default:
	}
}

// apply reconciles the live scene with cfg. Bolts whose structure is unchanged
// are reshaped in place; others are rebuilt. Fields are always rebuilt.
// Anchors missing from cfg are left where they are. New fields are constructed
// before anything live is touched, so a field that cannot be built leaves the
// scene on the previous config.
func (g *Game) apply(cfg *config.Config) error {
	pending := make([]*fieldState, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		fs, err := g.newField(fc)
		if err != nil {
			for _, built := range pending {
				built.field.Close()
			}
			return err
		}
		pending = append(pending, fs)
	}

	for _, ac := range cfg.Anchors {
		g.placeAnchor(ac)
	}

	noiseChanged := cfg.Noise.Kind != g.cfg.Noise.Kind
	keep := make(map[string]bool, len(cfg.Bolts))
	for _, bc := range cfg.Bolts {
		keep[bc.Name] = true
		prev, exists := g.boltCfgs[bc.Name]
		if exists && !noiseChanged && sameStructure(prev, bc) {
			b, _ := g.Bolt(bc.Name)
			b.Reshape(lightning.Shape{
				Funkiness: bc.Funkiness,
				Radius:    bc.Radius,
				CycleRate: bc.CycleRate,
				Cycles:    bc.Cycles,
				FBM:       bc.FBM,
			})
			g.boltCfgs[bc.Name] = bc
			continue
		}
		if exists {
			g.removeBolt(bc.Name)
		}
		if err := g.addBolt(cfg, bc); err != nil {
			for _, fs := range pending {
				fs.field.Close()
			}
			return err
		}
	}
	for name := range g.boltCfgs {
		if !keep[name] {
			g.removeBolt(name)
		}
	}

	for _, fs := range g.fields {
		g.registry.RemoveField(fs.field.ID())
	}
	g.fields = nil
	g.changesMu.Lock()
	g.changes = nil
	g.changesMu.Unlock()
	for i, fc := range cfg.Fields {
		if err := g.installField(pending[i], fc); err != nil {
			for _, rest := range pending[i+1:] {
				rest.field.Close()
			}
			return err
		}
	}

	g.cfg = cfg
	slog.Info("config applied", "bolts", len(g.registry.bolts), "fields", len(g.fields))
	return nil
}

// sameStructure reports whether a bolt can be reshaped rather than rebuilt.
func sameStructure(a, b config.BoltConfig) bool {
	return a.From == b.From &&
		a.To == b.To &&
		a.VertexCount == b.VertexCount &&
		a.NoiseIncrement == b.NoiseIncrement &&
		a.ColorSpeed == b.ColorSpeed &&
		slices.Equal(a.Colors, b.Colors)
}
