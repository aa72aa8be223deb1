package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a single reporting window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene counts at window end
	Bolts    int `csv:"bolts"`
	Segments int `csv:"segments"`
	Fields   int `csv:"fields"`
	Tracked  int `csv:"tracked"`

	// Bolt updates during window
	BoltUpdates int `csv:"bolt_updates"`
	BoltErrors  int `csv:"bolt_errors"`

	// Field reclassifications during window
	Classified   int `csv:"classified"`
	Unclassified int `csv:"unclassified"`
	Unavailable  int `csv:"unavailable"`
	Skipped      int `csv:"skipped"`

	// Probe usage sampled at window end
	ProbesInUse int `csv:"probes_in_use"`
	CodePool    int `csv:"code_pool"`

	// Code depth distribution over tracked objects
	DepthMean float64 `csv:"depth_mean"`
	DepthP10  float64 `csv:"depth_p10"`
	DepthP50  float64 `csv:"depth_p50"`
	DepthP90  float64 `csv:"depth_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns the mean and 10th/50th/90th percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogStats logs the window via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"tick", s.WindowEndTick,
		"bolts", s.Bolts,
		"segments", s.Segments,
		"bolt_errors", s.BoltErrors,
		"tracked", s.Tracked,
		"classified", s.Classified,
		"unclassified", s.Unclassified,
		"unavailable", s.Unavailable,
		"probes_in_use", s.ProbesInUse,
		"depth_mean", s.DepthMean,
	)
}
