// Bolt preview tool - interactive bolt shaping with sliders.
//
// Usage: go run ./cmd/boltpreview [-config path] [-bolt name]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/arclight/camera"
	"github.com/pthm-cable/arclight/config"
	"github.com/pthm-cable/arclight/game"
	"github.com/pthm-cable/arclight/geom"
	"github.com/pthm-cable/arclight/lightning"
	"github.com/pthm-cable/arclight/renderer"
	"github.com/pthm-cable/arclight/scene"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	panelWidth   = 360
	boltHeight   = 12.0
)

// preview owns the throwaway scene the bolt lives in.
type preview struct {
	scene  *scene.Scene
	bolt   *lightning.Bolt
	noise  string
	seed   int64
	colors []color.RGBA
}

func main() {
	configPath := flag.String("config", "", "Config to take the starting bolt from (empty = defaults)")
	boltName := flag.String("bolt", "", "Bolt to start from (empty = first bolt)")
	flag.Parse()

	slog.SetDefault(game.NewLogger(os.Stderr, game.LogOptions{Prefix: "boltpreview"}))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	initial := startingBolt(cfg, *boltName)
	params := initial

	rl.InitWindow(windowWidth, windowHeight, "Bolt Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	p := &preview{
		noise:  cfg.Noise.Kind,
		seed:   cfg.Seed,
		colors: cfg.Derived.BoltColors[initial.Name],
	}
	if err := p.rebuild(params); err != nil {
		slog.Error("failed to build bolt", "error", err)
		os.Exit(1)
	}

	cam := camera.New(r3.Vec{Y: boltHeight / 2}, 28)
	view := renderer.NewSceneRenderer()
	view.SetCamera(cam)
	background := renderer.NewBackgroundRenderer(windowWidth, windowHeight, 24, 20, 48)

	var seconds float64
	animating := true
	var lastErr error

	for !rl.WindowShouldClose() {
		// Animation
		if animating {
			seconds += float64(rl.GetFrameTime())
			lastErr = p.bolt.Update()
			p.bolt.Recolor(seconds)
		}

		// Orbit the view with the right mouse button; the left one drives the sliders.
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			d := rl.GetMouseDelta()
			cam.Rotate(float64(d.X)*0.005, float64(d.Y)*0.005)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 + float64(wheel)*0.1)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		background.Draw()
		view.Draw(p.scene, nil, renderer.Overlays{Anchors: true, Grid: true})

		rl.DrawText(fmt.Sprintf("Segments: %d  Time: %.1f", p.scene.SegmentCount(), seconds), 15, 15, 16, rl.RayWhite)
		if lastErr != nil {
			rl.DrawText(lastErr.Error(), 15, 35, 16, rl.Red)
		}

		// Control panel
		panelX := float32(windowWidth - panelWidth)
		panelY := float32(10)
		rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+10, windowHeight, rl.Fade(rl.RayWhite, 0.92))

		rl.DrawText("Bolt Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		next := params
		next.VertexCount = int(slider(&panelY, "Vertex count", "3", "64", float32(params.VertexCount), 3, 64, "%.0f"))
		next.Funkiness = float64(slider(&panelY, "Funkiness (spread)", "0", "2", float32(params.Funkiness), 0, 2, "%.2f"))
		next.Radius = float64(slider(&panelY, "Radius (helix)", "0", "6", float32(params.Radius), 0, 6, "%.2f"))
		next.Cycles = int(slider(&panelY, "Cycles (turns)", "0", "8", float32(params.Cycles), 0, 8, "%.0f"))
		next.CycleRate = float64(slider(&panelY, "Cycle rate (deg/tick)", "0", "20", float32(params.CycleRate), 0, 20, "%.1f"))

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+panelWidth-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Fractal noise", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		next.FBM.Amplitude = float64(slider(&panelY, "Amplitude", "0", "2", float32(params.FBM.Amplitude), 0, 2, "%.2f"))
		next.FBM.Frequency = float64(slider(&panelY, "Frequency", "0.05", "3", float32(params.FBM.Frequency), 0.05, 3, "%.2f"))
		next.FBM.Octaves = int(slider(&panelY, "Octaves", "1", "6", float32(params.FBM.Octaves), 1, 6, "%.0f"))
		next.FBM.Persistence = float64(slider(&panelY, "Persistence", "0.1", "1", float32(params.FBM.Persistence), 0.1, 1, "%.2f"))
		next.FBM.Lacunarity = float64(slider(&panelY, "Lacunarity", "1", "4", float32(params.FBM.Lacunarity), 1, 4, "%.2f"))

		if tunablesChanged(params, next) {
			params = p.apply(params, next)
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			p.seed = int64(rl.GetRandomValue(1, 99999))
			lastErr = p.rebuild(params)
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
			seconds = 0
			lastErr = p.rebuild(params)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Copy YAML") {
			rl.SetClipboardText(boltYAML(params))
		}
		panelY += 40

		rl.DrawText(fmt.Sprintf("seed %d, noise %s", p.seed, p.noise), int32(panelX), int32(panelY), 14, rl.Gray)
		rl.DrawText("Right drag to orbit, wheel to zoom", int32(panelX), windowHeight-30, 12, rl.Gray)

		rl.EndDrawing()
	}
	p.bolt.Destroy()
}

// startingBolt picks the named bolt, or the first one, or a bare default.
func startingBolt(cfg *config.Config, name string) config.BoltConfig {
	for _, b := range cfg.Bolts {
		if name == "" || b.Name == name {
			return b
		}
	}
	return config.BoltConfig{Name: "preview", VertexCount: 16}
}

// rebuild replaces the scene and bolt between two fixed preview anchors. Vertex
// count and seed changes need a fresh bolt; everything else goes through Reshape.
func (p *preview) rebuild(bc config.BoltConfig) error {
	if p.bolt != nil {
		p.bolt.Destroy()
	}
	p.scene = scene.New()
	top := p.scene.NewAnchor("top", geom.NewFrame(r3.Vec{Y: boltHeight}))
	bottom := p.scene.NewAnchor("bottom", geom.NewFrame(r3.Vec{}))

	rng := rand.New(rand.NewSource(p.seed))
	b, err := lightning.New(lightning.Params{
		VertexCount:    bc.VertexCount,
		Funkiness:      bc.Funkiness,
		Radius:         bc.Radius,
		CycleRate:      bc.CycleRate,
		Cycles:         bc.Cycles,
		ColorRange:     p.colors,
		ColorSpeed:     bc.ColorSpeed,
		NoiseIncrement: bc.NoiseIncrement,
		FBM:            bc.FBM,
		One:            top,
		Two:            bottom,
		Noise:          geom.NewNoise(p.noise, rng.Int63()),
		Rand:           rng,
	}, p.scene)
	if err != nil {
		return err
	}
	p.bolt = b
	return b.Update()
}

// apply moves the live bolt from cur to next and returns the accepted params.
func (p *preview) apply(cur, next config.BoltConfig) config.BoltConfig {
	if next.VertexCount != cur.VertexCount {
		if err := p.rebuild(next); err != nil {
			slog.Warn("rebuild failed", "error", err)
			return cur
		}
		return next
	}
	p.bolt.Reshape(lightning.Shape{
		Funkiness: next.Funkiness,
		Radius:    next.Radius,
		CycleRate: next.CycleRate,
		Cycles:    next.Cycles,
		FBM:       next.FBM,
	})
	return next
}

// tunablesChanged compares the fields the panel edits.
func tunablesChanged(a, b config.BoltConfig) bool {
	return a.VertexCount != b.VertexCount ||
		a.Funkiness != b.Funkiness ||
		a.Radius != b.Radius ||
		a.Cycles != b.Cycles ||
		a.CycleRate != b.CycleRate ||
		a.FBM != b.FBM
}

// slider draws a labelled slider at *y, advances *y and returns the new value.
func slider(y *float32, label, minText, maxText string, value, lo, hi float32, format string) float32 {
	x := float32(windowWidth - panelWidth)
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: *y, Width: panelWidth - 130, Height: 20},
		minText, maxText,
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+panelWidth-70), int32(*y+2), 16, rl.DarkGray)
	*y += 32
	return v
}

// boltYAML renders the bolt as a config list entry.
func boltYAML(bc config.BoltConfig) string {
	out, err := yaml.Marshal([]config.BoltConfig{bc})
	if err != nil {
		return ""
	}
	return "bolts:\n" + indent(string(out), "  ")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
