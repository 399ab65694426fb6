package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDepthMilestone BookmarkType = "depth_milestone"
	BookmarkSplitBurst     BookmarkType = "split_burst"
	BookmarkGrowthStall    BookmarkType = "growth_stall"
)

// DepthMilestoneStep is the max depth interval that triggers a depth milestone.
const DepthMilestoneStep = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a tree's growth.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	depthReached     int // highest milestone depth already reported
	stallWindowCount int // consecutive windows without a split
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling split average
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, for use after a regrow.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.depthReached = 0
	bd.stallWindowCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Depth milestone: max depth crossed the next multiple of DepthMilestoneStep
	if b := bd.checkDepthMilestone(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Split burst: window splits > 2x rolling average
	if b := bd.checkSplitBurst(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Growth stall: a branched tree stopped splitting for 5 windows
	if b := bd.checkGrowthStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkDepthMilestone(stats WindowStats) *Bookmark {
	milestone := stats.MaxDepth / DepthMilestoneStep * DepthMilestoneStep
	if milestone == 0 || milestone <= bd.depthReached {
		return nil
	}
	bd.depthReached = milestone

	return &Bookmark{
		Type:        BookmarkDepthMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Max depth reached %d with %d leaves", stats.MaxDepth, stats.Leaves),
	}
}

func (bd *BookmarkDetector) checkSplitBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Splits
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Splits) > avg*2.0 && stats.Splits >= 8 {
		return &Bookmark{
			Type:        BookmarkSplitBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d splits is %.1fx average (%.1f)", stats.Splits, float64(stats.Splits)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkGrowthStall(stats WindowStats) *Bookmark {
	if stats.Splits > 0 || stats.Branches < 3 {
		bd.stallWindowCount = 0
		return nil
	}

	bd.stallWindowCount++
	if bd.stallWindowCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkGrowthStall,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No splits for 5 windows at %d branches", stats.Branches),
		}
	}

	return nil
}
