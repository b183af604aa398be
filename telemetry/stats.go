package telemetry

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Jinkieyz/lajfi/genetics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population at window end
	Organisms     int     `csv:"organisms"`
	Plants        int     `csv:"plants"`
	PlantsPending int     `csv:"plants_pending"`
	PlantEnergy   float64 `csv:"plant_energy"`

	// Events during window
	Spawns         int `csv:"spawns"`
	Births         int `csv:"births"`
	Deaths         int `csv:"deaths"`
	Meals          int `csv:"meals"`
	Matings        int `csv:"matings"`
	Fights         int `csv:"fights"`
	Kills          int `csv:"kills"`
	Exports        int `csv:"exports"`
	ExportsSkipped int `csv:"exports_skipped"`
	ExportsDropped int `csv:"exports_dropped"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage depth
	GenerationMean float64 `csv:"generation_mean"`
	MaxGeneration  int     `csv:"max_generation"`

	// Heritable body plan
	LevelsMean     float64 `csv:"levels_mean"`
	ChildrenMean   float64 `csv:"children_mean"`
	SpeedMean      float64 `csv:"speed_mean"`
	AggressionMean float64 `csv:"aggression_mean"`
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

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, sample standard deviation and
// percentiles. The deviation is 0 for fewer than two values.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// ComputeGenerationStats returns the mean and maximum generation.
func ComputeGenerationStats(gens []float64) (mean float64, maxGen int) {
	if len(gens) == 0 {
		return 0, 0
	}
	return stat.Mean(gens, nil), int(floats.Max(gens))
}

// TraitMeans holds population means of selected genes.
type TraitMeans struct {
	Levels     float64
	Children   float64
	Speed      float64
	Aggression float64
}

// ComputeTraitMeans averages the fractal, speed and aggression genes over genomes.
func ComputeTraitMeans(genomes []genetics.Genome) TraitMeans {
	if len(genomes) == 0 {
		return TraitMeans{}
	}
	levels := make([]float64, len(genomes))
	children := make([]float64, len(genomes))
	speed := make([]float64, len(genomes))
	aggression := make([]float64, len(genomes))
	for i, g := range genomes {
		levels[i] = float64(g.Levels)
		children[i] = float64(g.Children)
		speed[i] = g.Speed
		aggression[i] = g.Aggression
	}
	return TraitMeans{
		Levels:     stat.Mean(levels, nil),
		Children:   stat.Mean(children, nil),
		Speed:      stat.Mean(speed, nil),
		Aggression: stat.Mean(aggression, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "stats", s.attrs()...)
}

func (s WindowStats) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("organisms", s.Organisms),
		slog.Int("plants", s.Plants),
		slog.Int("plants_pending", s.PlantsPending),
		slog.Float64("plant_energy", s.PlantEnergy),
		slog.Int("spawns", s.Spawns),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("meals", s.Meals),
		slog.Int("matings", s.Matings),
		slog.Int("fights", s.Fights),
		slog.Int("kills", s.Kills),
		slog.Int("exports", s.Exports),
		slog.Int("exports_skipped", s.ExportsSkipped),
		slog.Int("exports_dropped", s.ExportsDropped),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("generation_mean", s.GenerationMean),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Float64("levels_mean", s.LevelsMean),
		slog.Float64("children_mean", s.ChildrenMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("aggression_mean", s.AggressionMean),
	}
}
