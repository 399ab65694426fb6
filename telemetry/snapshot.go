package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/tree"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a complete tree for later inspection or restore.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int32 `json:"tick"`

	Growth tree.Params `json:"growth"`
	Root   BranchState `json:"root"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BranchState holds one branch and, for internal branches, its two children.
// IDs and depths are not stored; they follow from the position in the tree.
type BranchState struct {
	Shape  tree.Shape    `json:"shape"`
	Dir    [3]float64    `json:"dir"`
	Length float64       `json:"length"`
	Area   float64       `json:"area"`
	Radius float64       `json:"radius"`
	Kids   []BranchState `json:"children,omitempty"`
}

// NewSnapshot captures the tree rooted at root.
func NewSnapshot(root *tree.Branch, growth tree.Params, seed int64, tick int32) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: seed,
		Tick:    tick,
		Growth:  growth,
		Root:    captureBranch(root),
	}
}

func captureBranch(b *tree.Branch) BranchState {
	s := BranchState{
		Shape:  b.Shape,
		Dir:    [3]float64{b.Dir.X, b.Dir.Y, b.Dir.Z},
		Length: b.Length,
		Area:   b.Area,
		Radius: b.Radius,
	}
	if !b.IsLeaf() {
		a, c := b.Children()
		s.Kids = []BranchState{captureBranch(a), captureBranch(c)}
	}
	return s
}

// errChildren is returned when a saved branch has neither zero nor two children.
var errChildren = errors.New("branch must have zero or two children")

// Restore rebuilds the saved tree and returns its root.
func (s *Snapshot) Restore() (*tree.Branch, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	root := tree.NewRoot(s.Root.Shape, s.Root.Area)
	if err := restoreBranch(root, s.Root); err != nil {
		return nil, err
	}
	return root, nil
}

func restoreBranch(b *tree.Branch, s BranchState) error {
	b.Shape = s.Shape
	b.Dir = r3.Vec{X: s.Dir[0], Y: s.Dir[1], Z: s.Dir[2]}
	b.Length = s.Length
	b.Area = s.Area
	b.Radius = s.Radius

	switch len(s.Kids) {
	case 0:
		return nil
	case 2:
	default:
		return fmt.Errorf("restoring branch %d: %w", b.ID, errChildren)
	}

	a, c := &tree.Branch{}, &tree.Branch{}
	b.Graft(a, c)
	if err := restoreBranch(a, s.Kids[0]); err != nil {
		return err
	}
	return restoreBranch(c, s.Kids[1])
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
