package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Phase identifies a timed section of an update.
type Phase int

// Phases of an update, in reporting order.
const (
	PhaseGrow Phase = iota
	PhaseMesh
	PhaseLeaves
	PhaseTelemetry
	numPhases

	noPhase Phase = -1
)

var phaseNames = [numPhases]string{"grow", "mesh", "leaves", "telemetry"}

func (ph Phase) String() string {
	if ph < 0 || ph >= numPhases {
		return fmt.Sprintf("Phase(%d)", int(ph))
	}
	return phaseNames[ph]
}

// Phases returns every phase in reporting order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// Clock reports the current time.
type Clock func() time.Time

// tickSample is the timing of one update. An update may run several growth
// steps, each entering PhaseGrow once.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	steps  int
}

// PerfCollector times update phases over a rolling window of ticks.
// Re-entering a phase within a tick adds to its total.
type PerfCollector struct {
	now Clock

	samples     []tickSample
	writeIndex  int
	sampleCount int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase

	lastFrame     time.Time
	frameDuration time.Duration

	// Geometry size of the latest rebuild
	vertices  int
	instances int
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     time.Now,
		samples: make([]tickSample, windowSize),
		phase:   noPhase,
	}
}

// SetClock replaces the time source. nil restores time.Now.
func (p *PerfCollector) SetClock(now Clock) {
	if now == nil {
		now = time.Now
	}
	p.now = now
}

// StartTick begins timing a new update.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = tickSample{}
	p.phase = noPhase
}

// StartPhase closes the running phase and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := p.now()
	p.closePhase(now)
	if ph < 0 || ph >= numPhases {
		return
	}
	if ph == PhaseGrow {
		p.current.steps++
	}
	p.phase = ph
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != noPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = noPhase
}

// EndTick closes the running phase and records the update in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordFrame marks a rendered frame; the gap to the previous call is the
// frame duration.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// RecordGeometry records the size of the latest mesh and leaf rebuild.
func (p *PerfCollector) RecordGeometry(vertices, leafInstances int) {
	p.vertices = vertices
	p.instances = leafInstances
}

// PerfStats aggregates the collector window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Share of the average tick, in percent

	TicksPerSecond float64
	StepsPerSecond float64 // Growth steps, several per tick when steps-per-update > 1

	FrameDuration time.Duration
	FPS           float64

	Vertices      int
	LeafInstances int
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		FrameDuration: p.frameDuration,
		Vertices:      p.vertices,
		LeafInstances: p.instances,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	steps := 0
	for i, sample := range p.samples[:p.sampleCount] {
		total += sample.total
		steps += sample.steps
		if i == 0 || sample.total < s.MinTick {
			s.MinTick = sample.total
		}
		if sample.total > s.MaxTick {
			s.MaxTick = sample.total
		}
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	s.AvgTick = total / n
	for ph, sum := range phaseSum {
		s.PhaseAvg[ph] = sum / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if total > 0 {
		s.TicksPerSecond = float64(p.sampleCount) / total.Seconds()
		s.StepsPerSecond = float64(steps) / total.Seconds()
	}
	return s
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
		slog.Int("vertices", s.Vertices),
		slog.Int("leaf_instances", s.LeafInstances),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return attrs
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// PerfStatsCSV is a flat row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	StepsPerSec  float64 `csv:"steps_per_sec"`
	FPS          float64 `csv:"fps"`
	Vertices     int     `csv:"vertices"`
	Leaves       int     `csv:"leaf_instances"`
	GrowPct      float64 `csv:"grow_pct"`
	MeshPct      float64 `csv:"mesh_pct"`
	LeavesPct    float64 `csv:"leaves_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		StepsPerSec:  s.StepsPerSecond,
		FPS:          s.FPS,
		Vertices:     s.Vertices,
		Leaves:       s.LeafInstances,
		GrowPct:      s.PhasePct[PhaseGrow],
		MeshPct:      s.PhasePct[PhaseMesh],
		LeavesPct:    s.PhasePct[PhaseLeaves],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
