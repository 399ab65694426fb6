package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/sim"
	"github.com/pthm-cable/arbor/telemetry"
	"github.com/pthm-cable/arbor/tree"
)

// Target is the tree shape the search aims for after a fixed number of ticks.
type Target struct {
	Leaves int
	Height float64 // Unscaled tree height
}

// FitnessEvaluator grows headless trees and scores them against a target.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int32
	seeds      []int64
	baseConfig *config.Config
	target     Target

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestStats   *telemetry.WindowStats
	lastMetrics tree.Metrics // mean over seeds of the most recent Evaluate
}

// evalSeeds returns the n fixed seeds every evaluation grows.
func evalSeeds(n int) ([]int64, error) {
	if n < 1 {
		return nil, fmt.Errorf("seeds must be >= 1, got %d", n)
	}
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds, nil
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int32, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the final window stats of the best evaluation.
func (fe *FitnessEvaluator) BestStats() *telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastMetrics returns the seed-averaged metrics of the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() tree.Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// runResult holds the results from a single growth run.
type runResult struct {
	metrics tree.Metrics
	stats   telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the seed-averaged sum of squared relative errors of leaf count
// and height. Without seeds every vector scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	if len(fe.seeds) == 0 {
		return math.Inf(1)
	}
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
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

	var total float64
	var mean tree.Metrics
	best := math.Inf(1)
	var bestStats telemetry.WindowStats
	for _, r := range results {
		f := fe.score(r.metrics)
		total += f
		if f < best {
			best = f
			bestStats = r.stats
		}
		mean.Branches += r.metrics.Branches
		mean.Leaves += r.metrics.Leaves
		mean.MaxDepth += r.metrics.MaxDepth
		mean.Height += r.metrics.Height
		mean.TotalLength += r.metrics.TotalLength
		mean.TrunkRadius += r.metrics.TrunkRadius
	}

	n := len(fe.seeds)
	mean.Branches /= n
	mean.Leaves /= n
	mean.MaxDepth /= n
	mean.Height /= float64(n)
	mean.TotalLength /= float64(n)
	mean.TrunkRadius /= float64(n)
	avgFitness := total / float64(n)

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestStats = &bestStats
	}
	fe.lastMetrics = mean
	fe.mu.Unlock()

	return avgFitness
}

// score returns the squared relative error of m against the target.
func (fe *FitnessEvaluator) score(m tree.Metrics) float64 {
	var f float64
	if fe.target.Leaves > 0 {
		e := float64(m.Leaves-fe.target.Leaves) / float64(fe.target.Leaves)
		f += e * e
	}
	if fe.target.Height > 0 {
		e := (m.Height - fe.target.Height) / fe.target.Height
		f += e * e
	}
	return f
}

// runSimulation grows one tree for the configured number of ticks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	s := sim.New(sim.ParamsFromConfig(cfg), rand.New(rand.NewSource(seed)))

	// One window spanning the whole run
	collector := telemetry.NewCollector(int(fe.ticks))
	for s.Tick() < fe.ticks {
		collector.RecordGrow(s.Step())
	}

	return runResult{
		metrics: tree.Measure(s.Root()),
		stats:   collector.Flush(s.Tick(), s.Root()),
	}
}

// copyConfig returns a copy of the base config. Config holds only values, so
// a shallow copy is independent.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
