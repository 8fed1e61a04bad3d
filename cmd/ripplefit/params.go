// Package main fits ripple decay parameters with gonum's Nelder-Mead.
package main

import (
	"github.com/ams-law/goldsite/config"
)

// ParamSpec defines a single fitted parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value when the config has none
}

// ParamVector holds the set of fitted parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of fitted parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "damping", Path: "ripple.damping", Min: 0.9, Max: 0.9995, Default: 0.992},
			{Name: "click_strength", Path: "ripple.click_strength", Min: 50, Max: 5000, Default: 700},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Ripple.Damping = clamped[0]
	cfg.Ripple.ClickStrength = clamped[1]
}

// ExtractFromConfig extracts current parameter values from a Config struct,
// falling back to defaults for unset values.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := []float64{cfg.Ripple.Damping, cfg.Ripple.ClickStrength}
	for i, spec := range pv.Specs {
		if v[i] == 0 {
			v[i] = spec.Default
		}
	}
	return pv.Clamp(v)
}
