package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_DepthMilestone(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndTick: 60, MaxDepth: 4}); hasBookmark(got, BookmarkDepthMilestone) {
		t.Error("unexpected depth milestone below the first step")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 120, MaxDepth: 6}); !hasBookmark(got, BookmarkDepthMilestone) {
		t.Error("expected depth_milestone bookmark at depth 6")
	}
	// Same milestone is not reported twice
	if got := bd.Check(WindowStats{WindowEndTick: 180, MaxDepth: 9}); hasBookmark(got, BookmarkDepthMilestone) {
		t.Error("depth milestone 5 reported twice")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 240, MaxDepth: 10}); !hasBookmark(got, BookmarkDepthMilestone) {
		t.Error("expected depth_milestone bookmark at depth 10")
	}
}

func TestBookmarkDetector_SplitBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady history of 4 splits per window
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 60), Splits: 4, Branches: 50})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, Splits: 12, Branches: 80})
	if !hasBookmark(bookmarks, BookmarkSplitBurst) {
		t.Error("expected split_burst bookmark")
	}
}

func TestBookmarkDetector_SplitBurstNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{Splits: 1})

	if hasBookmark(bd.Check(WindowStats{Splits: 20}), BookmarkSplitBurst) {
		t.Error("split_burst should need at least 3 windows of history")
	}
}

func TestBookmarkDetector_GrowthStall(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 8; i++ {
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i * 60), Branches: 31}), BookmarkGrowthStall) {
			triggered++
			if i != 4 {
				t.Errorf("growth_stall triggered at window %d, want 4", i)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("growth_stall triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_StallIgnoresSapling(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 8; i++ {
		if hasBookmark(bd.Check(WindowStats{Branches: 1}), BookmarkGrowthStall) {
			t.Fatal("an unsplit root should not count as stalled")
		}
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{MaxDepth: 5})
	bd.Reset()

	if !hasBookmark(bd.Check(WindowStats{MaxDepth: 5}), BookmarkDepthMilestone) {
		t.Error("expected depth milestone to fire again after reset")
	}
	if len(bd.getHistory()) != 1 {
		t.Errorf("history length = %d, want 1", len(bd.getHistory()))
	}
}
