package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/sim"
	"github.com/pthm-cable/arbor/ui"
)

// startWatcher begins watching path for edits. Reloaded configs are queued
// and applied by applyReloads on the update goroutine.
func (g *Game) startWatcher(path string) {
	w, err := config.NewWatcher(path, g.queueReload, config.DefaultDebounce)
	if err != nil {
		slog.Error("failed to create config watcher", "error", err)
		return
	}
	if err := w.Start(context.Background()); err != nil {
		slog.Error("failed to start config watcher", "error", err)
		w.Stop()
		return
	}
	g.watcher = w
	slog.Info("watching config", "path", path)
}

// queueReload keeps only the newest pending config.
func (g *Game) queueReload(cfg *config.Config) {
	for {
		select {
		case g.reloads <- cfg:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

// applyReloads applies a pending reloaded config, if any.
func (g *Game) applyReloads() {
	select {
	case cfg := <-g.reloads:
		g.applyConfig(cfg)
	default:
	}
}

// applyConfig replaces the tuning parameters and camera behaviour. The tree
// keeps growing from its current state.
func (g *Game) applyConfig(cfg *config.Config) {
	g.sim.SetParams(sim.ParamsFromConfig(cfg))
	g.state.Params = g.sim.Params()

	g.cam.RotateSpeed = cfg.Camera.RotateSpeed
	g.state.AutoRotate = cfg.Camera.AutoRotate
	if g.overlays != nil {
		g.overlays.SetEnabled(ui.OverlayBillboard, cfg.Leaves.Billboard)
	}

	slog.Info("config applied", "tick", g.sim.Tick(), "rate", cfg.Growth.Rate)
}
