package telemetry

import (
	"errors"
	"testing"

	"github.com/pthm-cable/arclight/octfield"
)

func TestCollector_FlushAndReset(t *testing.T) {
	c := NewCollector(10, 0.5)

	c.RecordBoltUpdate(nil)
	c.RecordBoltUpdate(errors.New("degenerate"))
	c.RecordOutcome(octfield.Classified)
	c.RecordOutcome(octfield.Classified)
	c.RecordOutcome(octfield.Unclassified)
	c.RecordOutcome(octfield.Unavailable)
	c.RecordOutcome(octfield.Skipped)

	if c.ShouldFlush(9) {
		t.Error("window should not be complete at tick 9")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should be complete at tick 10")
	}

	stats := c.Flush(10, SceneCounts{Bolts: 2, Segments: 20, Tracked: 3, Depths: []float64{1, 2, 3}})

	tests := []struct {
		name      string
		got, want int
	}{
		{"bolt updates", stats.BoltUpdates, 2},
		{"bolt errors", stats.BoltErrors, 1},
		{"classified", stats.Classified, 2},
		{"unclassified", stats.Unclassified, 1},
		{"unavailable", stats.Unavailable, 1},
		{"skipped", stats.Skipped, 1},
		{"segments", stats.Segments, 20},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
	if stats.SimTimeSec != 5 {
		t.Errorf("sim time = %v, want 5", stats.SimTimeSec)
	}
	if stats.DepthMean != 2 {
		t.Errorf("depth mean = %v, want 2", stats.DepthMean)
	}

	next := c.Flush(20, SceneCounts{})
	if next.BoltUpdates != 0 || next.Classified != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestNewCollector_MinimumWindow(t *testing.T) {
	c := NewCollector(0, 1)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d, want 1", c.WindowDurationTicks())
	}
}
