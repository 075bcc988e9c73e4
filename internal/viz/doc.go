// Package viz provides terminal-based views of evaluated trajectories.
//
// The package implements a replay TUI using the Bubble Tea framework:
//
//   - [WatchModel]: steps a rolled-out trajectory knot point by knot
//     point, with per-stage constraint violations and total cost
//   - [PathCanvas]: braille pixel canvas plotting the x0/x1 trace,
//     obstacle circles, and goal markers in world coordinates
//   - [ViolationChart]: plain ASCII violation profile for non-TUI
//     output
//
// # Key Bindings
//
//	Space - Pause/Resume replay
//	R     - Restart from the first knot point
//	[ ]   - Step backward/forward
//	Q     - Quit
package viz
