package telemetry

import "github.com/pthm-cable/arbor/tree"

// Collector accumulates growth reports within tick windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	splits    int
	consumed  float64
	discarded float64

	// Scratch buffers reused across flushes
	leafDepths []float64
	lengths    []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordGrow adds one growth step to the current window.
func (c *Collector) RecordGrow(r tree.Report) {
	c.splits += r.Splits
	c.consumed += r.Consumed
	c.discarded += r.Discarded
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Reset drops the current window and starts a new one at tick. Used when the
// tree is regrown and the tick counter restarts.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.splits = 0
	c.consumed = 0
	c.discarded = 0
}

// Flush produces a WindowStats from the window counters and the current tree,
// then resets the counters for the next window.
func (c *Collector) Flush(currentTick int32, root *tree.Branch) WindowStats {
	m := tree.Measure(root)

	c.leafDepths = c.leafDepths[:0]
	c.lengths = c.lengths[:0]
	root.Walk(func(b *tree.Branch) bool {
		c.lengths = append(c.lengths, b.Length)
		if b.IsLeaf() {
			c.leafDepths = append(c.leafDepths, float64(b.Depth))
		}
		return true
	})

	depthMean, depthP10, depthP50, depthP90 := ComputeStats(c.leafDepths)
	lenMean, lenStd, lenP10, lenP50, lenP90 := ComputeStatsWithStd(c.lengths)

	var splitRate float64
	if ticks := currentTick - c.windowStartTick; ticks > 0 {
		splitRate = float64(c.splits) / float64(ticks)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Branches:    m.Branches,
		Leaves:      m.Leaves,
		MaxDepth:    m.MaxDepth,
		TotalLength: m.TotalLength,
		Height:      m.Height,
		TrunkRadius: m.TrunkRadius,

		Splits:    c.splits,
		SplitRate: splitRate,
		Consumed:  c.consumed,
		Discarded: c.discarded,

		LeafDepthMean: depthMean,
		LeafDepthP10:  depthP10,
		LeafDepthP50:  depthP50,
		LeafDepthP90:  depthP90,

		LengthMean: lenMean,
		LengthStd:  lenStd,
		LengthP10:  lenP10,
		LengthP50:  lenP50,
		LengthP90:  lenP90,
	}

	c.Reset(currentTick)
	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
