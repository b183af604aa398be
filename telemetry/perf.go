package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// tickTiming is the wall time of one tick, split by phase index.
type tickTiming struct {
	total  time.Duration
	phases []time.Duration
}

// PhaseTimer measures how long each tick phase takes, keeping the last
// window ticks in a ring. Phases are identified by their index into the
// names passed to NewPhaseTimer.
type PhaseTimer struct {
	names  []string
	ring   []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 outside a phase

	now func() time.Time
}

// NewPhaseTimer creates a timer over the given phase names. A window below
// one keeps a single tick.
func NewPhaseTimer(window int, names []string) *PhaseTimer {
	window = max(window, 1)
	pt := &PhaseTimer{
		names: names,
		ring:  make([]tickTiming, window),
		phase: -1,
		now:   time.Now,
	}
	for i := range pt.ring {
		pt.ring[i].phases = make([]time.Duration, len(names))
	}
	pt.cur.phases = make([]time.Duration, len(names))
	return pt
}

// BeginTick starts timing a tick.
func (pt *PhaseTimer) BeginTick() {
	pt.tickStart = pt.now()
	clear(pt.cur.phases)
	pt.phase = -1
}

// Enter closes the running phase, if any, and starts phase i.
func (pt *PhaseTimer) Enter(i int) {
	now := pt.now()
	pt.closePhase(now)
	pt.phaseStart = now
	pt.phase = i
}

// EndTick closes the last phase and stores the tick in the ring.
func (pt *PhaseTimer) EndTick() {
	now := pt.now()
	pt.closePhase(now)
	pt.phase = -1

	slot := &pt.ring[pt.next]
	slot.total = now.Sub(pt.tickStart)
	copy(slot.phases, pt.cur.phases)
	pt.next = (pt.next + 1) % len(pt.ring)
	pt.filled = min(pt.filled+1, len(pt.ring))
}

func (pt *PhaseTimer) closePhase(now time.Time) {
	if pt.phase >= 0 && pt.phase < len(pt.cur.phases) {
		pt.cur.phases[pt.phase] += now.Sub(pt.phaseStart)
	}
}

// PhaseTiming is one phase's share of the window.
type PhaseTiming struct {
	Name  string
	Avg   time.Duration
	Share float64 // percent of the average tick
}

// PerfStats summarizes the ticks held by a PhaseTimer.
type PerfStats struct {
	Ticks          int
	AvgTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64
	Phases         []PhaseTiming // execution order
}

// Stats averages the ticks currently in the window.
func (pt *PhaseTimer) Stats() PerfStats {
	stats := PerfStats{Ticks: pt.filled, Phases: make([]PhaseTiming, len(pt.names))}
	for i, name := range pt.names {
		stats.Phases[i].Name = name
	}
	if pt.filled == 0 {
		return stats
	}

	var total time.Duration
	sums := make([]time.Duration, len(pt.names))
	for _, s := range pt.ring[:pt.filled] {
		total += s.total
		stats.MaxTick = max(stats.MaxTick, s.total)
		for i, d := range s.phases {
			sums[i] += d
		}
	}

	n := time.Duration(pt.filled)
	stats.AvgTick = total / n
	if stats.AvgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTick)
	}
	for i := range stats.Phases {
		p := &stats.Phases[i]
		p.Avg = sums[i] / n
		if stats.AvgTick > 0 {
			p.Share = float64(p.Avg) * 100 / float64(stats.AvgTick)
		}
	}
	return stats
}

// Phase looks up a phase by name.
func (s PerfStats) Phase(name string) (PhaseTiming, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PhaseTiming{}, false
}

// Slowest returns the phase with the largest average, or false when no
// phase has been timed.
func (s PerfStats) Slowest() (PhaseTiming, bool) {
	var best PhaseTiming
	for _, p := range s.Phases {
		if p.Avg > best.Avg {
			best = p
		}
	}
	return best, best.Avg > 0
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window's timings using slog.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if slow, ok := s.Slowest(); ok {
		attrs = append(attrs,
			slog.String("slowest_phase", slow.Name),
			slog.Float64("slowest_pct", slow.Share),
		)
	}
	return attrs
}

// PerfRow is one phase of one window in perf.csv.
type PerfRow struct {
	WindowEnd int64   `csv:"window_end"`
	Phase     string  `csv:"phase"`
	AvgUS     float64 `csv:"avg_us"`
	SharePct  float64 `csv:"share_pct"`
	TickAvgUS float64 `csv:"tick_avg_us"`
}

// Rows flattens the stats into one row per phase.
func (s PerfStats) Rows(windowEnd int64) []PerfRow {
	rows := make([]PerfRow, len(s.Phases))
	tick := micros(s.AvgTick)
	for i, p := range s.Phases {
		rows[i] = PerfRow{
			WindowEnd: windowEnd,
			Phase:     p.Name,
			AvgUS:     micros(p.Avg),
			SharePct:  p.Share,
			TickAvgUS: tick,
		}
	}
	return rows
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
