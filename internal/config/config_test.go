package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Problem != "triple_integrator" {
		t.Errorf("expected problem triple_integrator, got %s", cfg.Problem)
	}
	if cfg.Dof != 2 {
		t.Errorf("expected dof 2, got %d", cfg.Dof)
	}
	if !cfg.Constrained {
		t.Error("default config should be constrained")
	}
}

func TestBuildDefault(t *testing.T) {
	prob, traj, err := Default().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !prob.IsFullyDefined() {
		t.Error("built problem is not fully defined")
	}
	if got := prob.NumSegments(); got != 10 {
		t.Errorf("NumSegments() = %d, want 10", got)
	}
	if got := traj.StateDimension(); got != 6 {
		t.Errorf("trajectory state dimension = %d, want 6", got)
	}
}

func TestBuildOverrides(t *testing.T) {
	cfg := &Config{
		Problem:     "triple_integrator",
		Dof:         1,
		Horizon:     20,
		TimeStep:    0.05,
		Constrained: true,
		InitState:   []float64{1, 0, 0},
		GoalState:   []float64{2, 0, 0},
	}
	prob, traj, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := prob.NumSegments(); got != 20 {
		t.Errorf("NumSegments() = %d, want 20", got)
	}
	if got := traj.Step(0); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("Step(0) = %g, want 0.05", got)
	}
	if got := prob.GetInitialState().AtVec(0); got != 1 {
		t.Errorf("initial state[0] = %g, want 1", got)
	}
}

func TestBuildPendulum(t *testing.T) {
	cfg := &Config{
		Problem:     "pendulum",
		Horizon:     40,
		Duration:    2.0,
		Constrained: true,
	}
	prob, traj, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := prob.NumSegments(); got != 40 {
		t.Errorf("NumSegments() = %d, want 40", got)
	}
	if got := traj.Step(0); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("Step(0) = %g, want 0.05", got)
	}
	if got := traj.ControlDimension(); got != 1 {
		t.Errorf("control dimension = %d, want 1", got)
	}
}

func TestBuildDrone(t *testing.T) {
	cfg := &Config{
		Problem:     "drone",
		Horizon:     30,
		Duration:    1.5,
		Constrained: true,
	}
	prob, traj, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := prob.NumSegments(); got != 30 {
		t.Errorf("NumSegments() = %d, want 30", got)
	}
	if got := traj.Step(0); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("Step(0) = %g, want 0.05", got)
	}
	if got := traj.ControlDimension(); got != 2 {
		t.Errorf("control dimension = %d, want 2", got)
	}
	if got := prob.NumConstraints(0); got != 5 {
		t.Errorf("NumConstraints(0) = %d, want 5", got)
	}
}

func TestBuildUnicycleScenarios(t *testing.T) {
	cfg := &Config{Problem: "unicycle", Scenario: "obstacles", Constrained: true}
	prob, _, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Obstacles and position bounds join the velocity bounds.
	if got := prob.NumConstraints(0); got != 11 {
		t.Errorf("NumConstraints(0) = %d, want 11", got)
	}

	if _, _, err := (&Config{Problem: "unicycle", Scenario: "sideways"}).Build(); err == nil ||
		!strings.Contains(err.Error(), "unknown scenario") {
		t.Errorf("Build() error = %v, want unknown scenario", err)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, _, err := (&Config{Problem: "orbit_transfer"}).Build(); err == nil ||
		!strings.Contains(err.Error(), "unknown problem") {
		t.Errorf("Build() error = %v, want unknown problem", err)
	}

	bad := &Config{Problem: "triple_integrator", InitState: []float64{1, 2}}
	if _, _, err := bad.Build(); err == nil || !strings.Contains(err.Error(), "init_state") {
		t.Errorf("Build() error = %v, want init_state size error", err)
	}

	pinned := &Config{Problem: "unicycle", Scenario: "obstacles", GoalState: []float64{1, 1, 0}}
	if _, _, err := pinned.Build(); err == nil || !strings.Contains(err.Error(), "goal_state") {
		t.Errorf("Build() error = %v, want goal_state error", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{
		Problem:     "unicycle",
		Scenario:    "turn90",
		Horizon:     200,
		Duration:    4.5,
		Constrained: true,
		InitState:   []float64{0.5, 0, 0},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Problem != "unicycle" || got.Scenario != "turn90" {
		t.Errorf("loaded problem/scenario = %s/%s", got.Problem, got.Scenario)
	}
	if got.Horizon != 200 || got.Duration != 4.5 {
		t.Errorf("loaded horizon/duration = %d/%g", got.Horizon, got.Duration)
	}
	if len(got.InitState) != 3 || got.InitState[0] != 0.5 {
		t.Errorf("loaded init_state = %v", got.InitState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("unicycle", "obstacles")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scenario != "obstacles" {
		t.Errorf("expected scenario obstacles, got %s", cfg.Scenario)
	}

	if GetPreset("unicycle", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent problem")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("triple_integrator")
	if len(names) == 0 {
		t.Fatal("expected presets for triple_integrator")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent problem")
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, probName := range ListProblems() {
		for _, preset := range ListPresets(probName) {
			prob, traj, err := GetPreset(probName, preset).Build()
			if err != nil {
				t.Errorf("%s/%s: Build() error = %v", probName, preset, err)
				continue
			}
			if !prob.IsFullyDefined() {
				t.Errorf("%s/%s: problem is not fully defined", probName, preset)
			}
			if traj.NumSegments() != prob.NumSegments() {
				t.Errorf("%s/%s: trajectory has %d segments, problem %d",
					probName, preset, traj.NumSegments(), prob.NumSegments())
			}
		}
	}
}
