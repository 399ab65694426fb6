// Tree screenshot tool - grows a tree headlessly and renders it to a PNG.
//
// Usage: go run ./cmd/treeshot -ticks 300 -out tree.png
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/camera"
	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/renderer"
	"github.com/pthm-cable/arbor/sim"
	"github.com/pthm-cable/arbor/telemetry"
	"github.com/pthm-cable/arbor/tree"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	restore := flag.String("restore", "", "Render a saved snapshot instead of growing")
	seed := flag.Int64("seed", 42, "RNG seed")
	ticks := flag.Int("ticks", 300, "Growth ticks before rendering")
	rotation := flag.Float64("rotation", 0, "Camera rotation in degrees")
	outPath := flag.String("out", "tree.png", "Output PNG path")
	width := flag.Int("width", 800, "Render width")
	height := flag.Int("height", 800, "Render height")
	wire := flag.Bool("wire", false, "Draw the mesh wireframe")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	s := sim.New(sim.ParamsFromConfig(cfg), rand.New(rand.NewSource(*seed)))
	if *restore != "" {
		if err := install(s, *restore); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore snapshot: %v\n", err)
			os.Exit(1)
		}
	} else {
		for s.Tick() < int32(*ticks) {
			s.Step()
		}
	}

	cam := camera.New(float64(*width), float64(*height), cfg.Camera)
	cam.AutoRotate = false
	cam.Rotate(*rotation)

	mesh := s.Mesh()
	leaves := s.Leaves(cfg.Leaves.Billboard, cam.Rotation)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Tree Shot")
	defer rl.CloseWindow()

	trees := renderer.NewTreeRenderer()
	trees.DrawWire = *wire
	background := renderer.NewBackgroundRenderer(204, 204, 204)

	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	background.Clear()
	trees.Begin(cam)
	background.DrawGround()
	trees.DrawMesh(mesh)
	trees.DrawLeafQuads(leaves)
	trees.End()
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	m := tree.Measure(s.Root())
	fmt.Printf("Tree rendered to: %s (%dx%d, tick %d, %d branches, %d leaves)\n",
		*outPath, *width, *height, s.Tick(), m.Branches, m.Leaves)
}

func install(s *sim.Simulation, path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	root, err := snap.Restore()
	if err != nil {
		return err
	}
	p := s.Params()
	p.Growth = snap.Growth
	s.SetParams(p)
	s.Install(root, snap.Tick)
	return nil
}
