package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/arbor/tree"
)

func grownTree(seed int64, ticks int) *tree.Branch {
	root := tree.NewRoot(tree.DefaultShape(), tree.DefaultInitialArea)
	g := tree.NewGrower(tree.DefaultParams(), rand.New(rand.NewSource(seed)))
	for i := 0; i < ticks; i++ {
		g.Grow(root, 1.0)
	}
	return root
}

func flatten(root *tree.Branch) []tree.Branch {
	var out []tree.Branch
	root.Walk(func(b *tree.Branch) bool {
		// Copy exported state only
		out = append(out, tree.Branch{
			ID: b.ID, Depth: b.Depth, Shape: b.Shape,
			Dir: b.Dir, Length: b.Length, Radius: b.Radius, Area: b.Area,
		})
		return true
	})
	return out
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	root := grownTree(42, 200)

	snapshot := NewSnapshot(root, tree.DefaultParams(), 42, 200)
	snapshot.Bookmark = &Bookmark{
		Type:        BookmarkSplitBurst,
		Tick:        200,
		Description: "Test bookmark",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if loaded.Growth != snapshot.Growth {
		t.Errorf("Growth mismatch: got %+v, want %+v", loaded.Growth, snapshot.Growth)
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}

	restored, err := loaded.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	want, got := flatten(root), flatten(restored)
	if len(got) != len(want) {
		t.Fatalf("restored %d branches, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("branch %d mismatch:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
	if tree.Measure(restored) != tree.Measure(root) {
		t.Error("restored tree metrics differ")
	}
}

func TestSnapshotRestoreErrors(t *testing.T) {
	bad := NewSnapshot(grownTree(1, 10), tree.DefaultParams(), 1, 10)
	bad.Root.Kids = bad.Root.Kids[:1]
	if _, err := bad.Restore(); err == nil {
		t.Error("expected error for a branch with one child")
	}

	old := NewSnapshot(grownTree(1, 1), tree.DefaultParams(), 1, 1)
	old.Version = SnapshotVersion + 1
	if _, err := old.Restore(); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkGrowthStall,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_growth_stall.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	snapshotNoBookmark := &Snapshot{
		Version: SnapshotVersion,
		Tick:    3000,
	}

	path, err = SaveSnapshot(snapshotNoBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
