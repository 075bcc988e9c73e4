// Package export renders rolled-out trajectories to standalone SVG
// documents for inspection outside the terminal.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// PathSVG renders the planar trace of a trajectory: the (x0, x1) path as
// a polyline, circle constraints as obstacle outlines, goal targets and
// the start state as markers. One-dimensional states are plotted against
// time instead. The world box keeps its aspect ratio inside width×height.
func PathSVG(prob *problem.Problem, traj *trajectory.Trajectory, width, height int) string {
	obstacles, goals := collectGeometry(prob)
	xs, ys := tracePoints(traj)

	f := fitFrame(xs, ys, obstacles, goals, float64(width), float64(height))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range obstacles {
		for i := 0; i < c.OutputDimension(); i++ {
			cx, cy, r := c.Obstacle(i)
			px, py := f.point(cx, cy)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#1f1f1f" stroke="#cc6666" stroke-width="1.5"/>
`, px, py, r*f.scale))
		}
	}

	sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`)
	for i := range xs {
		px, py := f.point(xs[i], ys[i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}
	sb.WriteString("\"/>\n")

	if len(xs) > 0 {
		px, py := f.point(xs[0], ys[0])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#66aaff"/>
`, px, py))
	}
	for _, g := range goals {
		tgt := g.Target()
		if tgt.Len() < 2 {
			continue
		}
		px, py := f.point(tgt.AtVec(0), tgt.AtVec(1))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffcc00"/>
`, px, py))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG renders the trajectory into w at the default 640x480 size.
func WriteSVG(w io.Writer, prob *problem.Problem, traj *trajectory.Trajectory) error {
	_, err := io.WriteString(w, PathSVG(prob, traj, 640, 480))
	return err
}

// ExportSVG renders the trajectory into a file.
func ExportSVG(path string, prob *problem.Problem, traj *trajectory.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export svg: %w", err)
	}
	defer file.Close()
	if err := WriteSVG(file, prob, traj); err != nil {
		return fmt.Errorf("export svg: %w", err)
	}
	return nil
}

// tracePoints extracts the plotted coordinates: the first two state
// entries, or time against the single entry for scalar states.
func tracePoints(traj *trajectory.Trajectory) (xs, ys []float64) {
	n := traj.NumSegments()
	xs = make([]float64, n+1)
	ys = make([]float64, n+1)
	for k := 0; k <= n; k++ {
		x := traj.State(k)
		if traj.StateDimension() < 2 {
			xs[k] = traj.Time(k)
			ys[k] = x.AtVec(0)
			continue
		}
		xs[k] = x.AtVec(0)
		ys[k] = x.AtVec(1)
	}
	return xs, ys
}

func collectGeometry(prob *problem.Problem) ([]*constraint.Circle, []*constraint.Goal) {
	var obstacles []*constraint.Circle
	var goals []*constraint.Goal
	seenC := map[*constraint.Circle]bool{}
	seenG := map[*constraint.Goal]bool{}
	for k := 0; k <= prob.NumSegments(); k++ {
		for _, c := range prob.Constraints(k) {
			switch v := c.(type) {
			case *constraint.Circle:
				if !seenC[v] {
					seenC[v] = true
					obstacles = append(obstacles, v)
				}
			case *constraint.Goal:
				if !seenG[v] {
					seenG[v] = true
					goals = append(goals, v)
				}
			}
		}
	}
	return obstacles, goals
}

// frame maps world coordinates to pixels with a uniform scale, so circles
// render as circles, and the y axis pointing up.
type frame struct {
	xmin, ymin float64
	scale      float64
	ox, oy     float64
	height     float64
}

func (f frame) point(wx, wy float64) (float64, float64) {
	px := f.ox + (wx-f.xmin)*f.scale
	py := f.height - f.oy - (wy-f.ymin)*f.scale
	return px, py
}

func fitFrame(xs, ys []float64, obstacles []*constraint.Circle, goals []*constraint.Goal, width, height float64) frame {
	xmin, xmax := xs[0], xs[0]
	ymin, ymax := ys[0], ys[0]
	grow := func(x, y float64) {
		if x < xmin {
			xmin = x
		}
		if x > xmax {
			xmax = x
		}
		if y < ymin {
			ymin = y
		}
		if y > ymax {
			ymax = y
		}
	}
	for i := range xs {
		grow(xs[i], ys[i])
	}
	for _, c := range obstacles {
		for i := 0; i < c.OutputDimension(); i++ {
			cx, cy, r := c.Obstacle(i)
			grow(cx-r, cy-r)
			grow(cx+r, cy+r)
		}
	}
	for _, g := range goals {
		if tgt := g.Target(); tgt.Len() >= 2 {
			grow(tgt.AtVec(0), tgt.AtVec(1))
		}
	}

	rangeX := xmax - xmin
	rangeY := ymax - ymin
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	xmin -= rangeX * 0.1
	ymin -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scale := width / rangeX
	if s := height / rangeY; s < scale {
		scale = s
	}
	return frame{
		xmin:   xmin,
		ymin:   ymin,
		scale:  scale,
		ox:     (width - rangeX*scale) / 2,
		oy:     (height - rangeY*scale) / 2,
		height: height,
	}
}
