package problems

import (
	"fmt"
	"sort"

	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// Builder assembles a fully constrained problem together with its
// initial trajectory.
type Builder func() (*problem.Problem, *trajectory.Trajectory)

// Registry maps problem names to builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry with the built-in benchmark
// problems.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders["drone"] = func() (*problem.Problem, *trajectory.Trajectory) {
		def := NewDroneProblem()
		return def.MakeProblem(true), def.InitialTrajectory()
	}
	r.builders["pendulum"] = func() (*problem.Problem, *trajectory.Trajectory) {
		def := NewPendulumProblem()
		return def.MakeProblem(true), def.InitialTrajectory()
	}
	r.builders["triple_integrator"] = func() (*problem.Problem, *trajectory.Trajectory) {
		def := NewTripleIntegratorProblem(2)
		return def.MakeProblem(true), def.InitialTrajectory()
	}
	r.builders["unicycle_turn90"] = func() (*problem.Problem, *trajectory.Trajectory) {
		def := NewUnicycleProblem()
		return def.MakeProblem(true), def.InitialTrajectory()
	}
	r.builders["unicycle_obstacles"] = func() (*problem.Problem, *trajectory.Trajectory) {
		def := NewUnicycleProblem()
		def.SetScenario(ThreeObstacles)
		return def.MakeProblem(true), def.InitialTrajectory()
	}
	return r
}

// Register adds or replaces a named builder.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// Get builds the named problem.
func (r *Registry) Get(name string) (*problem.Problem, *trajectory.Trajectory, error) {
	fn, ok := r.builders[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown problem: %s", name)
	}
	prob, traj := fn()
	return prob, traj, nil
}

// List returns the registered problem names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
