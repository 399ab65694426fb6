package main

import (
	"github.com/pthm-cable/arbor/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters. Bounds
// match the ranges the control panel allows.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Root shape
			{Name: "ratio", Path: "tree.ratio", Min: 0.05, Max: 0.95, Default: 0.6},
			{Name: "spread", Path: "tree.spread", Min: 0.0, Max: 5.0, Default: 0.45},
			{Name: "split_size", Path: "tree.split_size", Min: 0.1, Max: 5.0, Default: 2.5},
			// Growth
			{Name: "directedness", Path: "growth.directedness", Min: 0.0, Max: 1.0, Default: 0.5},
			{Name: "split_decay", Path: "growth.split_decay", Min: 0.0, Max: 0.1, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Tree.Ratio = clamped[0]
	cfg.Tree.Spread = clamped[1]
	cfg.Tree.SplitSize = clamped[2]
	cfg.Growth.Directedness = clamped[3]
	cfg.Growth.SplitDecay = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Tree.Ratio,
		cfg.Tree.Spread,
		cfg.Tree.SplitSize,
		cfg.Growth.Directedness,
		cfg.Growth.SplitDecay,
	}
}
