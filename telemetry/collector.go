package telemetry

import "github.com/Jinkieyz/lajfi/genetics"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	spawns         int
	births         int
	deaths         int
	meals          int
	matings        int
	fights         int
	kills          int
	exports        int
	exportsSkipped int
	exportsDropped int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// Record counts an event in the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventSpawn:
		c.spawns++
	case EventBirth:
		c.births++
	case EventDeath:
		c.deaths++
	case EventMeal:
		c.meals++
	case EventMating:
		c.matings++
	case EventFight:
		c.fights++
	case EventKill:
		c.kills++
	case EventExport:
		c.exports++
	case EventExportSkipped:
		c.exportsSkipped++
	case EventExportDropped:
		c.exportsDropped++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Population is the state sampled at the end of a window.
type Population struct {
	Organisms     int
	Plants        int
	PendingPlants int
	PlantEnergy   float64
	Energies      []float64
	Generations   []float64
	Genomes       []genetics.Genome
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop Population) WindowStats {
	mean, std, p10, p50, p90 := ComputeEnergyStats(pop.Energies)
	genMean, genMax := ComputeGenerationStats(pop.Generations)
	traits := ComputeTraitMeans(pop.Genomes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Organisms:     pop.Organisms,
		Plants:        pop.Plants,
		PlantsPending: pop.PendingPlants,
		PlantEnergy:   pop.PlantEnergy,

		Spawns:         c.spawns,
		Births:         c.births,
		Deaths:         c.deaths,
		Meals:          c.meals,
		Matings:        c.matings,
		Fights:         c.fights,
		Kills:          c.kills,
		Exports:        c.exports,
		ExportsSkipped: c.exportsSkipped,
		ExportsDropped: c.exportsDropped,

		EnergyMean: mean,
		EnergyStd:  std,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		GenerationMean: genMean,
		MaxGeneration:  genMax,

		LevelsMean:     traits.Levels,
		ChildrenMean:   traits.Children,
		SpeedMean:      traits.Speed,
		AggressionMean: traits.Aggression,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.births = 0
	c.deaths = 0
	c.meals = 0
	c.matings = 0
	c.fights = 0
	c.kills = 0
	c.exports = 0
	c.exportsSkipped = 0
	c.exportsDropped = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
