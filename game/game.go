// Package game hosts a growing tree in a raylib window or in a headless loop.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/camera"
	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/geometry"
	"github.com/pthm-cable/arbor/renderer"
	"github.com/pthm-cable/arbor/sim"
	"github.com/pthm-cable/arbor/telemetry"
	"github.com/pthm-cable/arbor/tree"
	"github.com/pthm-cable/arbor/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindow    int    // Ticks per stats window (0 = use config)
	SnapshotDir    string // Bookmark snapshots (empty = output dir, if any)
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	RestorePath    string // Snapshot to start from
	ConfigPath     string // Watched for live reload when Watch is set
	Watch          bool
}

// Game holds the complete host state around one simulation.
type Game struct {
	opts Options
	rng  *rand.Rand
	sim  *sim.Simulation
	cam  *camera.Camera

	// Rendering (nil when headless)
	trees      *renderer.TreeRenderer
	background *renderer.BackgroundRenderer
	overlays   *ui.OverlayRegistry
	controls   *ui.ControlsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	state      ui.ControlState

	// Last rebuilt geometry
	mesh   *geometry.Mesh
	leaves []mgl64.Mat4

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager

	// Live config reload
	reloads chan *config.Config
	watcher *config.Watcher

	stepsPerUpdate int
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions creates a game from the global config. config.Init must
// have been called. In graphical mode the raylib window must already exist.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	g := &Game{
		opts:             opts,
		rng:              rand.New(rand.NewSource(opts.Seed)),
		stepsPerUpdate:   opts.StepsPerUpdate,
		screenWidth:      float32(cfg.Screen.Width),
		screenHeight:     float32(cfg.Screen.Height),
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		reloads:          make(chan *config.Config, 1),
	}

	params := sim.ParamsFromConfig(cfg)
	g.sim = sim.New(params, g.rng)
	g.cam = camera.New(float64(g.screenWidth), float64(g.screenHeight), cfg.Camera)

	if opts.RestorePath != "" {
		g.restore(opts.RestorePath)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if opts.Watch && opts.ConfigPath != "" {
		g.startWatcher(opts.ConfigPath)
	}

	if !opts.Headless {
		g.initGraphics(cfg)
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"headless", opts.Headless,
		"stats_window", statsWindow,
		"output_dir", g.outputManager.Dir(),
	)
	return g
}

func (g *Game) initGraphics(cfg *config.Config) {
	g.trees = renderer.NewTreeRenderer()
	g.background = renderer.NewBackgroundRenderer(204, 204, 204)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayBillboard, cfg.Leaves.Billboard)
	g.controls = ui.NewControlsPanel(10, 10, 280)
	g.hud = ui.NewHUD(int32(g.screenWidth)-420, 10)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, 110, 260)

	g.state = ui.ControlState{
		Params:      g.sim.Params(),
		Overlays:    g.overlays,
		AutoRotate:  g.cam.AutoRotate,
		Background:  float32(g.background.Color.R) / 255,
		LeafColor:   g.trees.Palette.Leaf,
		TreeColor:   g.trees.Palette.Tree,
		LeafOpacity: g.trees.Palette.LeafOpacity,
	}
}

// restore installs the tree stored in a snapshot file.
func (g *Game) restore(path string) {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		slog.Error("failed to load snapshot", "path", path, "error", err)
		return
	}
	root, err := snap.Restore()
	if err != nil {
		slog.Error("failed to restore snapshot", "path", path, "error", err)
		return
	}

	p := g.sim.Params()
	p.Growth = snap.Growth
	g.sim.SetParams(p)
	g.sim.Install(root, snap.Tick)
	g.collector.Reset(snap.Tick)

	m := tree.Measure(root)
	slog.Info("snapshot restored", "path", path, "tick", snap.Tick, "branches", m.Branches, "seed", snap.RNGSeed)
}

// Update handles input and runs one frame of growth in graphical mode.
func (g *Game) Update() {
	g.applyReloads()
	g.handleInput()

	g.cam.AutoRotate = g.state.AutoRotate
	g.cam.Update()

	g.perfCollector.RecordFrame()
	g.perfCollector.StartTick()
	if !g.state.Paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	// Leaves follow the camera when billboarded, so rebuild every frame
	g.rebuildGeometry()
	g.perfCollector.EndTick()
}

// UpdateHeadless runs simulation steps without input or drawing.
func (g *Game) UpdateHeadless() {
	g.applyReloads()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.perfCollector.StartTick()
		g.step()
		g.perfCollector.EndTick()
	}
}

// step runs a single growth tick and its telemetry.
func (g *Game) step() {
	g.perfCollector.StartPhase(telemetry.PhaseGrow)
	report := g.sim.Step()
	g.collector.RecordGrow(report)

	// Headless runs only build geometry for the perf record of each window
	if g.opts.Headless && g.collector.ShouldFlush(g.sim.Tick()) {
		g.rebuildGeometry()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// rebuildGeometry regenerates the mesh and leaf transforms from the tree.
func (g *Game) rebuildGeometry() {
	billboard := g.overlays == nil || g.overlays.IsEnabled(ui.OverlayBillboard)

	g.perfCollector.StartPhase(telemetry.PhaseMesh)
	g.mesh = g.sim.Mesh()
	g.perfCollector.StartPhase(telemetry.PhaseLeaves)
	g.leaves = g.sim.Leaves(billboard, g.cam.Rotation)

	g.perfCollector.RecordGeometry(g.mesh.VertexCount(), len(g.leaves))
}

// Regrow restarts the tree and the telemetry windows.
func (g *Game) Regrow() {
	g.sim.Regrow()
	g.collector.Reset(g.sim.Tick())
	g.bookmarkDetector.Reset()
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Unload releases all resources.
func (g *Game) Unload() {
	if g.watcher != nil {
		g.watcher.Stop()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func gray(level float32) rl.Color {
	v := uint8(level * 255)
	return rl.Color{R: v, G: v, B: v, A: 255}
}
