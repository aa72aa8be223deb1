// Package ui draws the heads-up display over the 3D scene.
package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Bolts      int
	Segments   int
	Fields     int
	Tracked    int
	BoltErrors int
	Tick       int32
	Speed      int
	FPS        int32
	Paused     bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Bolts: %d | Segments: %d | Fields: %d | Tracked: %d", data.Bolts, data.Segments, data.Fields, data.Tracked),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	statusColor := rl.Yellow
	switch {
	case data.Paused:
		statusText = "PAUSED"
	case data.BoltErrors > 0:
		statusText = fmt.Sprintf("Running (%d degenerate bolt updates)", data.BoltErrors)
		statusColor = rl.Orange
	}
	rl.DrawText(statusText, 10, 75, 16, statusColor)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// CodeRow is one tracked anchor in the field panel.
type CodeRow struct {
	Field  string
	Anchor string
	Code   string
}

// FieldPanel lists the current code of every tracked anchor.
type FieldPanel struct {
	x, y int32
}

// NewFieldPanel creates a field panel.
func NewFieldPanel(x, y int32) *FieldPanel {
	return &FieldPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (f *FieldPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the field panel.
func (f *FieldPanel) Draw(rows []CodeRow) {
	x, y := f.x, f.y
	rl.DrawText("Field Codes", x, y, 16, rl.White)
	y += 20

	for i, row := range rows {
		if i >= 16 {
			break
		}
		rl.DrawText(fmt.Sprintf("%s/%s: %s", row.Field, row.Anchor, FormatCode(row.Code)), x, y, 12, rl.LightGray)
		y += 14
	}
}

// FormatCode separates octant symbols for display. The empty code reads "-".
func FormatCode(code string) string {
	if code == "" {
		return "-"
	}
	return strings.Join(octfield.Symbols(code), ".")
}
