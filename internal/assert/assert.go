// Package assert implements the contract-violation checks used across the
// problem-definition layer.
//
// Contract violations are programmer errors: invalid constraint handles,
// mismatched dimensions, out-of-range stage indices. They are reported by
// panicking with a [*Violation] and are never returned as ordinary error
// values. The solver must not recover from them.
//
// Checks can be disabled process-wide with [SetActive]. A disabled check is
// skipped entirely and the violated contract becomes undefined behavior; the
// toggle exists so that hot solver loops can shed the checks once a problem
// definition has been validated. It is meant to be set once at startup.
package assert

import "fmt"

// Violation carries the message of a failed contract check. It is the panic
// payload, not a recoverable error.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "contract violation: " + v.Msg
}

var active = true

// Active reports whether contract checks are currently enforced.
func Active() bool { return active }

// SetActive enables or disables all contract checks. Not safe for concurrent
// use; call before handing the problem to the solver.
func SetActive(on bool) { active = on }

// Assertf panics with a *Violation when cond is false and checks are active.
func Assertf(cond bool, format string, args ...any) {
	if !active || cond {
		return
	}
	panic(&Violation{Msg: fmt.Sprintf(format, args...)})
}

// Failf reports an unconditionally violated contract, such as calling a
// method a type does not define. Subject to the same toggle as Assertf.
func Failf(format string, args ...any) {
	Assertf(false, format, args...)
}
