package telemetry

import "github.com/pthm-cable/arclight/octfield"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	boltUpdates  int
	boltErrors   int
	classified   int
	unclassified int
	unavailable  int
	skipped      int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordBoltUpdate records one generator update and whether it failed.
func (c *Collector) RecordBoltUpdate(err error) {
	c.boltUpdates++
	if err != nil {
		c.boltErrors++
	}
}

// RecordOutcome records the result of a field reclassification.
func (c *Collector) RecordOutcome(o octfield.Outcome) {
	switch o {
	case octfield.Classified:
		c.classified++
	case octfield.Unclassified:
		c.unclassified++
	case octfield.Unavailable:
		c.unavailable++
	default:
		c.skipped++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// SceneCounts is the scene state sampled when a window is flushed.
type SceneCounts struct {
	Bolts       int
	Segments    int
	Fields      int
	Tracked     int
	ProbesInUse int
	CodePool    int
	Depths      []float64 // code depth of every tracked object
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, counts SceneCounts) WindowStats {
	mean, p10, p50, p90 := ComputeDistribution(counts.Depths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Bolts:    counts.Bolts,
		Segments: counts.Segments,
		Fields:   counts.Fields,
		Tracked:  counts.Tracked,

		BoltUpdates: c.boltUpdates,
		BoltErrors:  c.boltErrors,

		Classified:   c.classified,
		Unclassified: c.unclassified,
		Unavailable:  c.unavailable,
		Skipped:      c.skipped,

		ProbesInUse: counts.ProbesInUse,
		CodePool:    counts.CodePool,

		DepthMean: mean,
		DepthP10:  p10,
		DepthP50:  p50,
		DepthP90:  p90,
	}

	c.windowStartTick = currentTick
	c.boltUpdates = 0
	c.boltErrors = 0
	c.classified = 0
	c.unclassified = 0
	c.unavailable = 0
	c.skipped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
