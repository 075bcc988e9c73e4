package config

import "sort"

// Presets are named, ready-to-run configurations grouped by problem.
var Presets = map[string]map[string]*Config{
	"drone": {
		"default": {
			Problem: "drone", Constrained: true,
		},
		"climb": {
			Problem: "drone", GoalState: []float64{0, 2, 0, 0, 0, 0},
			Constrained: true,
		},
	},
	"pendulum": {
		"default": {
			Problem: "pendulum", Constrained: true,
		},
		"fine_grid": {
			Problem: "pendulum", Horizon: 160, Constrained: true,
		},
	},
	"triple_integrator": {
		"default": {
			Problem: "triple_integrator", Dof: 2, Constrained: true,
		},
		"single_dof": {
			Problem: "triple_integrator", Dof: 1, Constrained: true,
		},
		"long_horizon": {
			Problem: "triple_integrator", Dof: 2, Horizon: 50, TimeStep: 0.05,
			Constrained: true,
		},
		"unconstrained": {
			Problem: "triple_integrator", Dof: 2,
		},
	},
	"unicycle": {
		"turn90": {
			Problem: "unicycle", Scenario: "turn90", Constrained: true,
		},
		"obstacles": {
			Problem: "unicycle", Scenario: "obstacles", Constrained: true,
		},
		"fine_grid": {
			Problem: "unicycle", Scenario: "turn90", Horizon: 200,
			Constrained: true,
		},
	},
}

// GetPreset returns the named preset, or nil when either the problem
// or the preset is unknown.
func GetPreset(prob, preset string) *Config {
	group, ok := Presets[prob]
	if !ok {
		return nil
	}
	cfg, ok := group[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names for a problem in sorted order,
// or nil when the problem is unknown.
func ListPresets(prob string) []string {
	group, ok := Presets[prob]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListProblems returns the problem names that have presets, sorted.
func ListProblems() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
