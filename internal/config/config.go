// Package config loads and saves problem configurations and turns
// them into assembled problems.
package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/problems"
	"github.com/san-kum/trajopt/internal/trajectory"
)

const DefaultDof = 2

// Config selects a benchmark problem and optional overrides of its
// defaults. Zero-valued fields keep the problem's own defaults.
type Config struct {
	Problem  string `yaml:"problem"`
	Scenario string `yaml:"scenario"`

	// Dof applies to the triple integrator.
	Dof int `yaml:"dof"`

	// Horizon overrides the number of segments when positive.
	Horizon int `yaml:"horizon"`

	// Duration overrides the total time for problems defined by a
	// final time; TimeStep overrides the step for problems defined by
	// a fixed step.
	Duration float64 `yaml:"duration"`
	TimeStep float64 `yaml:"time_step"`

	Constrained bool `yaml:"constrained"`

	// InitState and GoalState override x0 and xf when non-empty.
	InitState []float64 `yaml:"init_state"`
	GoalState []float64 `yaml:"goal_state"`
}

func Default() *Config {
	return &Config{
		Problem:     "triple_integrator",
		Dof:         DefaultDof,
		Constrained: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Build assembles the configured problem and its initial trajectory.
func (c *Config) Build() (*problem.Problem, *trajectory.Trajectory, error) {
	switch c.Problem {
	case "drone":
		return c.buildDrone()
	case "pendulum":
		return c.buildPendulum()
	case "triple_integrator":
		return c.buildTripleIntegrator()
	case "unicycle":
		return c.buildUnicycle()
	default:
		return nil, nil, fmt.Errorf("unknown problem: %s", c.Problem)
	}
}

func (c *Config) buildDrone() (*problem.Problem, *trajectory.Trajectory, error) {
	def := problems.NewDroneProblem()
	if c.Horizon > 0 {
		def.N = c.Horizon
	}
	if c.Duration > 0 {
		def.Tf = c.Duration
	}
	if err := applyState(def.X0, c.InitState, "init_state"); err != nil {
		return nil, nil, err
	}
	if err := applyState(def.Xf, c.GoalState, "goal_state"); err != nil {
		return nil, nil, err
	}
	return def.MakeProblem(c.Constrained), def.InitialTrajectory(), nil
}

func (c *Config) buildPendulum() (*problem.Problem, *trajectory.Trajectory, error) {
	def := problems.NewPendulumProblem()
	if c.Horizon > 0 {
		def.N = c.Horizon
	}
	if c.Duration > 0 {
		def.Tf = c.Duration
	}
	if err := applyState(def.X0, c.InitState, "init_state"); err != nil {
		return nil, nil, err
	}
	if err := applyState(def.Xf, c.GoalState, "goal_state"); err != nil {
		return nil, nil, err
	}
	return def.MakeProblem(c.Constrained), def.InitialTrajectory(), nil
}

func (c *Config) buildTripleIntegrator() (*problem.Problem, *trajectory.Trajectory, error) {
	dof := c.Dof
	if dof == 0 {
		dof = DefaultDof
	}
	def := problems.NewTripleIntegratorProblem(dof)
	if c.Horizon > 0 {
		def.N = c.Horizon
	}
	if c.TimeStep > 0 {
		def.H = c.TimeStep
	}
	if err := applyState(def.X0, c.InitState, "init_state"); err != nil {
		return nil, nil, err
	}
	if err := applyState(def.Xf, c.GoalState, "goal_state"); err != nil {
		return nil, nil, err
	}
	return def.MakeProblem(c.Constrained), def.InitialTrajectory(), nil
}

func (c *Config) buildUnicycle() (*problem.Problem, *trajectory.Trajectory, error) {
	def := problems.NewUnicycleProblem()
	switch c.Scenario {
	case "", "turn90":
	case "obstacles":
		// The scenario pins its own goal.
		if len(c.GoalState) > 0 {
			return nil, nil, fmt.Errorf("goal_state cannot be overridden for the obstacles scenario")
		}
		def.SetScenario(problems.ThreeObstacles)
	default:
		return nil, nil, fmt.Errorf("unknown scenario: %s", c.Scenario)
	}
	if c.Horizon > 0 {
		def.N = c.Horizon
	}
	if c.Duration > 0 {
		def.Tf = c.Duration
	}
	if err := applyState(def.X0, c.InitState, "init_state"); err != nil {
		return nil, nil, err
	}
	if err := applyState(def.Xf, c.GoalState, "goal_state"); err != nil {
		return nil, nil, err
	}
	return def.MakeProblem(c.Constrained), def.InitialTrajectory(), nil
}

func applyState(dst *mat.VecDense, src []float64, field string) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) != dst.Len() {
		return fmt.Errorf("%s has %d entries, want %d", field, len(src), dst.Len())
	}
	for i, v := range src {
		dst.SetVec(i, v)
	}
	return nil
}
