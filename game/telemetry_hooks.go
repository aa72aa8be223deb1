package game

import (
	"log/slog"

	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/telemetry"
)

// drainChanges records queued reclassifications and returns the code changes
// to be written to classifications.csv.
func (g *Game) drainChanges() []telemetry.Classification {
	g.changesMu.Lock()
	changes := g.changes
	g.changes = nil
	g.changesMu.Unlock()

	var records []telemetry.Classification
	for _, c := range changes {
		g.collector.RecordOutcome(c.Outcome)
		if c.Code == c.Previous && c.Previous != "" {
			continue
		}
		records = append(records, telemetry.Classification{
			Tick:    g.tick,
			Field:   c.field,
			Anchor:  g.trackedName(c.field, c.Handle),
			Outcome: c.Outcome.String(),
			Code:    c.Code,
			Depth:   octfield.Depth(c.Code),
		})
	}
	return records
}

func (g *Game) trackedName(field string, h octfield.Handle) string {
	for _, fs := range g.fields {
		if fs.name != field {
			continue
		}
		if a, ok := fs.tracked[h]; ok {
			return a.Name()
		}
	}
	return ""
}

// sceneCounts samples the scene for a stats window.
func (g *Game) sceneCounts() telemetry.SceneCounts {
	counts := telemetry.SceneCounts{
		Bolts:       len(g.registry.bolts),
		Segments:    g.scene.SegmentCount(),
		Fields:      len(g.fields),
		ProbesInUse: g.querier.InUse(),
	}
	for _, fs := range g.fields {
		counts.Tracked += fs.field.Len()
		counts.CodePool += fs.field.Pool()
		for _, code := range fs.field.Codes() {
			counts.Depths = append(counts.Depths, float64(octfield.Depth(code)))
		}
	}
	return counts
}

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sceneCounts())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
