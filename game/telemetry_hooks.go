package game

import (
	"log/slog"

	"github.com/pthm-cable/arbor/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.sim.Root())
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteGrowth(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(&bm)
	}
}

// saveSnapshot writes the current tree to the snapshot directory, or to the
// output directory when no snapshot directory is set.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := telemetry.NewSnapshot(g.sim.Root(), g.sim.Params().Growth, g.opts.Seed, g.sim.Tick())
	snapshot.Bookmark = bookmark

	var (
		path string
		err  error
	)
	switch {
	case g.opts.SnapshotDir != "":
		path, err = telemetry.SaveSnapshot(snapshot, g.opts.SnapshotDir)
	default:
		path, err = g.outputManager.WriteSnapshot(snapshot)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if path != "" {
		slog.Info("snapshot saved", "path", path, "tick", snapshot.Tick)
	}
}

// SaveSnapshot writes the current tree without a bookmark.
func (g *Game) SaveSnapshot() {
	g.saveSnapshot(nil)
}
