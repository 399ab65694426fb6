package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/arbor/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i, v := range def {
		if math.Abs(back[i]-v) > 1e-12 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], v)
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-12 {
			t.Errorf("%s: config default %v, param default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	pv.ApplyToConfig(cfg, []float64{2, -1, 0.5, 0.25, 1})

	want := []float64{0.95, 0, 0.5, 0.25, 0.1}
	got := pv.ExtractFromConfig(cfg)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Path, got[i], want[i])
		}
	}
}

func TestEvaluateHitsOwnTarget(t *testing.T) {
	pv := NewParamVector()
	base := config.Defaults()
	seeds := []int64{42}

	// Measure the default tree, then ask for exactly that tree
	measure := NewFitnessEvaluator(pv, 120, seeds, base, Target{Leaves: 1, Height: 1})
	measure.Evaluate(pv.DefaultVector())
	m := measure.LastMetrics()
	if m.Leaves < 2 {
		t.Fatalf("expected a split tree after 120 ticks, got %d leaves", m.Leaves)
	}

	fe := NewFitnessEvaluator(pv, 120, seeds, base, Target{Leaves: m.Leaves, Height: m.Height})
	if f := fe.Evaluate(pv.DefaultVector()); f > 1e-12 {
		t.Errorf("expected zero fitness at own target, got %v", f)
	}
	if fe.BestStats() == nil {
		t.Error("expected best stats after an evaluation")
	}

	// A stubby tree misses the target
	off := pv.DefaultVector()
	off[2] = 5 // split_size
	if f := fe.Evaluate(off); f <= 0 {
		t.Errorf("expected positive fitness away from target, got %v", f)
	}
}

func TestEvaluateDoesNotMutateBase(t *testing.T) {
	pv := NewParamVector()
	base := config.Defaults()
	fe := NewFitnessEvaluator(pv, 10, []int64{1, 2}, base, Target{Leaves: 4})
	fe.Evaluate([]float64{0.3, 1, 1, 0.9, 0.05})

	if base.Tree.Ratio != 0.6 || base.Growth.Directedness != 0.5 {
		t.Error("Evaluate modified the base config")
	}
}

func TestEvalSeeds(t *testing.T) {
	seeds, err := evalSeeds(3)
	if err != nil {
		t.Fatalf("evalSeeds(3): %v", err)
	}
	if len(seeds) != 3 || seeds[0] != 42 || seeds[2] != 2042 {
		t.Errorf("unexpected seeds %v", seeds)
	}

	for _, n := range []int{0, -2} {
		if _, err := evalSeeds(n); err == nil {
			t.Errorf("evalSeeds(%d): expected an error", n)
		}
	}
}

func TestEvaluateWithoutSeeds(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 10, nil, config.Defaults(), Target{Leaves: 4})
	if f := fe.Evaluate(pv.DefaultVector()); !math.IsInf(f, 1) {
		t.Errorf("expected +Inf fitness without seeds, got %v", f)
	}
	if fe.BestStats() != nil {
		t.Error("expected no best stats without seeds")
	}
}

func TestNewMethod(t *testing.T) {
	if _, err := newMethod("nelder-mead", 5, 0); err != nil {
		t.Errorf("nelder-mead: %v", err)
	}
	if _, err := newMethod("cmaes", 5, 0); err != nil {
		t.Errorf("cmaes: %v", err)
	}
	if _, err := newMethod("annealing", 5, 0); err == nil {
		t.Error("expected an error for an unknown method")
	}
}
