// Package telemetry provides windowed growth statistics, growth milestones,
// performance timing and tree snapshots.
package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated statistics for a window of growth ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Tree structure at window end
	Branches    int     `csv:"branches"`
	Leaves      int     `csv:"leaves"`
	MaxDepth    int     `csv:"max_depth"`
	TotalLength float64 `csv:"total_length"`
	Height      float64 `csv:"height"`
	TrunkRadius float64 `csv:"trunk_radius"`

	// Growth during window
	Splits    int     `csv:"splits"`
	SplitRate float64 `csv:"split_rate"` // Splits per tick
	Consumed  float64 `csv:"consumed"`
	Discarded float64 `csv:"discarded"`

	// Leaf depth distribution (sampled at window end)
	LeafDepthMean float64 `csv:"leaf_depth_mean"`
	LeafDepthP10  float64 `csv:"leaf_depth_p10"`
	LeafDepthP50  float64 `csv:"leaf_depth_p50"`
	LeafDepthP90  float64 `csv:"leaf_depth_p90"`

	// Segment length distribution
	LengthMean float64 `csv:"length_mean"`
	LengthStd  float64 `csv:"length_std"`
	LengthP10  float64 `csv:"length_p10"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`
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

// ComputeStats calculates mean and percentiles. values is not modified.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	mean, _, p10, p50, p90 = ComputeStatsWithStd(values)
	return mean, p10, p50, p90
}

// ComputeStatsWithStd calculates mean, population standard deviation and
// percentiles. values is not modified.
func ComputeStatsWithStd(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	var sqDiffSum float64
	for _, v := range values {
		d := v - mean
		sqDiffSum += d * d
	}
	std = math.Sqrt(sqDiffSum / float64(n))

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("branches", s.Branches),
		slog.Int("leaves", s.Leaves),
		slog.Int("max_depth", s.MaxDepth),
		slog.Float64("total_length", s.TotalLength),
		slog.Float64("height", s.Height),
		slog.Float64("trunk_radius", s.TrunkRadius),
		slog.Int("splits", s.Splits),
		slog.Float64("split_rate", s.SplitRate),
		slog.Float64("consumed", s.Consumed),
		slog.Float64("discarded", s.Discarded),
		slog.Float64("leaf_depth_mean", s.LeafDepthMean),
		slog.Float64("leaf_depth_p10", s.LeafDepthP10),
		slog.Float64("leaf_depth_p50", s.LeafDepthP50),
		slog.Float64("leaf_depth_p90", s.LeafDepthP90),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("length_p10", s.LengthP10),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_p90", s.LengthP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"branches", s.Branches,
		"leaves", s.Leaves,
		"max_depth", s.MaxDepth,
		"height", s.Height,
		"trunk_radius", s.TrunkRadius,
		"splits", s.Splits,
		"split_rate", s.SplitRate,
		"consumed", s.Consumed,
		"discarded", s.Discarded,
		"leaf_depth_p50", s.LeafDepthP50,
		"leaf_depth_p90", s.LeafDepthP90,
		"length_mean", s.LengthMean,
		"length_p90", s.LengthP90,
	)
}
