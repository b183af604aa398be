package main

import (
	"io"
	"log/slog"
	"sync"

	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/world"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config
	logger     *slog.Logger

	mu           sync.Mutex
	lastSurvival float64 // mean survival fraction from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LastSurvival returns the mean survival fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int     // ticks before extinction, or maxTicks
	meanPop       float64 // mean living population over the ticks run
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the negated mean of population x survival fraction across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel; every world owns its own rng.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total, survival float64
	for _, r := range results {
		frac := float64(r.survivalTicks) / float64(fe.maxTicks)
		total += r.meanPop * frac
		survival += frac
	}
	n := float64(len(fe.seeds))
	fitness := -total / n

	fe.mu.Lock()
	fe.lastSurvival = survival / n
	fe.mu.Unlock()

	return fitness
}

// runSimulation runs one seed until extinction or maxTicks. cfg is shared
// between goroutines and must not be modified.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	w, err := world.New(cfg, world.Options{Seed: seed, Logger: fe.logger})
	if err != nil {
		return runResult{}
	}

	var popSum float64
	for tick := 1; tick <= fe.maxTicks; tick++ {
		w.Step()
		n := w.Count()
		popSum += float64(n)
		if n == 0 {
			return runResult{survivalTicks: tick, meanPop: popSum / float64(tick)}
		}
	}
	return runResult{survivalTicks: fe.maxTicks, meanPop: popSum / float64(fe.maxTicks)}
}

// copyConfig returns an independent copy of the base config with respawn
// disabled, so extinction ends a run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Population.RespawnThreshold = 0
	return &cfg
}
