package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase is one timed section of a driver tick.
type Phase uint8

const (
	PhaseConfig Phase = iota
	PhaseAnchors
	PhaseBolts
	PhaseFields
	PhaseTelemetry

	numPhases
)

var phaseNames = [numPhases]string{"config", "anchors", "bolts", "fields", "telemetry"}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every tick phase in execution order.
var Phases = []Phase{PhaseConfig, PhaseAnchors, PhaseBolts, PhaseFields, PhaseTelemetry}

// PhaseDurations holds one duration per phase.
type PhaseDurations [numPhases]time.Duration

// PerfSample is the timing of one tick.
type PerfSample struct {
	Tick   time.Duration
	Phases PhaseDurations
}

// PerfCollector keeps the last windowSize tick samples in a ring.
type PerfCollector struct {
	ring  []PerfSample
	next  int
	count int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 if windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring: make([]PerfSample, windowSize),
		now:  time.Now,
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = phase < numPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the running phase and stores the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.Tick = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame measures the time since the previous call.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	Samples         int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P90TickDuration time.Duration

	PhaseAvg PhaseDurations
	PhasePct [numPhases]float64 // share of the average tick, 0-100

	TicksPerSecond float64

	// Graphics mode only.
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Samples: p.count, FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var sums PhaseDurations
	ticks := make([]float64, p.count)
	for i, sample := range p.ring[:p.count] {
		total += sample.Tick
		ticks[i] = float64(sample.Tick)
		for ph, d := range sample.Phases {
			sums[ph] += d
		}
	}
	slices.Sort(ticks)

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P90TickDuration = time.Duration(Percentile(ticks, 0.9))
	for ph := range sums {
		s.PhaseAvg[ph] = sums[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window via slog, skipping phases under 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p90_tick_us", s.P90TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("p90_tick", s.P90TickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, ph := range Phases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	Samples      int     `csv:"samples"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P90TickUS    int64   `csv:"p90_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	ConfigPct    float64 `csv:"config_pct"`
	AnchorsPct   float64 `csv:"anchors_pct"`
	BoltsPct     float64 `csv:"bolts_pct"`
	FieldsPct    float64 `csv:"fields_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		Samples:      s.Samples,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P90TickUS:    s.P90TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		ConfigPct:    s.PhasePct[PhaseConfig],
		AnchorsPct:   s.PhasePct[PhaseAnchors],
		BoltsPct:     s.PhasePct[PhaseBolts],
		FieldsPct:    s.PhasePct[PhaseFields],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
