package game

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/camera"
	"github.com/pthm-cable/arclight/renderer"
	"github.com/pthm-cable/arclight/ui"
)

const controlsText = "SPACE pause | , . speed | drag rotate | wheel zoom | WASD pan | F fields | P probes | G grid | T perf | R reset"

// initRendering creates the graphical components. raylib calls are deferred
// until Draw, so this is safe before the window opens.
func (g *Game) initRendering() {
	g.camera = camera.New(g.sceneCenter(), 45)
	g.sceneView = renderer.NewSceneRenderer()
	g.background = renderer.NewBackgroundRenderer(int32(g.cfg.Screen.Width), int32(g.cfg.Screen.Height), 36, 30, 70)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.cfg.Screen.Width)-260, 10)
	g.fieldPanel = ui.NewFieldPanel(10, 105)
	g.overlays = renderer.Overlays{Fields: true, Anchors: true, Grid: true}
}

// sceneCenter averages anchor positions so the camera starts on the action.
func (g *Game) sceneCenter() r3.Vec {
	var sum r3.Vec
	n := 0
	for _, a := range g.scene.Anchors() {
		sum = r3.Add(sum, a.Position())
		n++
	}
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/float64(n), sum)
}

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)
	g.background.Draw()

	g.sceneView.SetCamera(g.camera)
	g.sceneView.Draw(g.scene, g.fieldViews(), g.overlays)

	tracked := 0
	for _, fs := range g.fields {
		tracked += fs.field.Len()
	}
	g.hud.Draw(ui.HUDData{
		Title:      "Arclight",
		Bolts:      len(g.registry.bolts),
		Segments:   g.scene.SegmentCount(),
		Fields:     len(g.fields),
		Tracked:    tracked,
		BoltErrors: g.boltErrors,
		Tick:       g.tick,
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
	})
	if g.overlays.Fields {
		g.fieldPanel.Draw(g.codeRows())
	}
	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsText)
}

func (g *Game) fieldViews() []renderer.FieldView {
	views := make([]renderer.FieldView, len(g.fields))
	for i, fs := range g.fields {
		views[i] = renderer.FieldView{Field: fs.field, Tracked: fs.tracked}
	}
	return views
}

// codeRows lists tracked anchors sorted by field then anchor name.
func (g *Game) codeRows() []ui.CodeRow {
	var rows []ui.CodeRow
	for _, fs := range g.fields {
		for h, a := range fs.tracked {
			code, ok := fs.field.Code(h)
			if !ok {
				continue
			}
			rows = append(rows, ui.CodeRow{Field: fs.name, Anchor: a.Name(), Code: code})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Field != rows[j].Field {
			return rows[i].Field < rows[j].Field
		}
		return rows[i].Anchor < rows[j].Anchor
	})
	return rows
}
