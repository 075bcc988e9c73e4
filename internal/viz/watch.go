package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

const (
	canvasCols = 48
	canvasRows = 18

	// Stage violations below this are treated as clean in the view.
	violationTol = 1e-6
)

type TickMsg time.Time

// WatchModel replays an evaluated trajectory knot point by knot
// point. The trajectory must already be rolled out; the model only
// moves a cursor over it.
type WatchModel struct {
	name  string
	prob  *problem.Problem
	traj  *trajectory.Trajectory
	viols []float64
	cost  float64

	k       int
	running bool

	obstacles []*constraint.Circle
	goals     []*constraint.Goal

	xmin, xmax, ymin, ymax float64
}

// NewWatch builds the replay model for an evaluated trajectory.
func NewWatch(name string, prob *problem.Problem, traj *trajectory.Trajectory) WatchModel {
	m := WatchModel{
		name:    name,
		prob:    prob,
		traj:    traj,
		viols:   trajectory.StageViolations(prob, traj),
		cost:    trajectory.TotalCost(prob, traj),
		running: true,
	}
	m.collectGeometry()
	m.fitBounds()
	return m
}

// Stage returns the current cursor position.
func (m WatchModel) Stage() int { return m.k }

// Running reports whether the replay is advancing.
func (m WatchModel) Running() bool { return m.running }

func (m *WatchModel) collectGeometry() {
	seenCircle := make(map[*constraint.Circle]bool)
	seenGoal := make(map[*constraint.Goal]bool)
	for k := 0; k <= m.traj.NumSegments(); k++ {
		for _, con := range m.prob.Constraints(k) {
			switch c := con.(type) {
			case *constraint.Circle:
				if !seenCircle[c] {
					seenCircle[c] = true
					m.obstacles = append(m.obstacles, c)
				}
			case *constraint.Goal:
				if !seenGoal[c] {
					seenGoal[c] = true
					m.goals = append(m.goals, c)
				}
			}
		}
	}
}

func (m *WatchModel) fitBounds() {
	if m.traj.StateDimension() < 2 {
		return
	}
	first := m.traj.State(0)
	m.xmin, m.xmax = first.AtVec(0), first.AtVec(0)
	m.ymin, m.ymax = first.AtVec(1), first.AtVec(1)
	grow := func(x, y float64) {
		if x < m.xmin {
			m.xmin = x
		}
		if x > m.xmax {
			m.xmax = x
		}
		if y < m.ymin {
			m.ymin = y
		}
		if y > m.ymax {
			m.ymax = y
		}
	}
	for k := 1; k <= m.traj.NumSegments(); k++ {
		grow(m.traj.State(k).AtVec(0), m.traj.State(k).AtVec(1))
	}
	for _, obs := range m.obstacles {
		for i := 0; i < obs.OutputDimension(); i++ {
			x, y, r := obs.Obstacle(i)
			grow(x-r, y-r)
			grow(x+r, y+r)
		}
	}
	for _, g := range m.goals {
		if g.Target().Len() >= 2 {
			grow(g.Target().AtVec(0), g.Target().AtVec(1))
		}
	}
	padX := 0.1 * (m.xmax - m.xmin)
	padY := 0.1 * (m.ymax - m.ymin)
	if padX == 0 {
		padX = 0.5
	}
	if padY == 0 {
		padY = 0.5
	}
	m.xmin -= padX
	m.xmax += padX
	m.ymin -= padY
	m.ymax += padY
}

func (m WatchModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.k = 0
			m.running = true
		case "[":
			m.running = false
			if m.k > 0 {
				m.k--
			}
		case "]":
			m.running = false
			if m.k < m.traj.NumSegments() {
				m.k++
			}
		}
	case TickMsg:
		if m.running {
			if m.k < m.traj.NumSegments() {
				m.k++
			} else {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m WatchModel) View() string {
	var stats strings.Builder

	status := "PAUSED"
	switch {
	case m.running:
		status = "REPLAYING"
	case m.k == m.traj.NumSegments():
		status = "DONE"
	}
	stats.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	stats.WriteString(status + "\n\n")

	nseg := m.traj.NumSegments()
	stats.WriteString(labelStyle.Render("Stage") +
		valueStyle.Render(fmt.Sprintf("%d / %d", m.k, nseg)) + "\n")
	stats.WriteString(labelStyle.Render("Time") +
		valueStyle.Render(fmt.Sprintf("%.3fs", m.traj.Time(m.k))) + "\n")
	stats.WriteString(labelStyle.Render("State") +
		valueStyle.Render(formatVec(m.traj.State(m.k).RawVector().Data)) + "\n")
	if m.k < nseg {
		stats.WriteString(labelStyle.Render("Control") +
			valueStyle.Render(formatVec(m.traj.Control(m.k).RawVector().Data)) + "\n")
	} else {
		stats.WriteString(labelStyle.Render("Control") + valueStyle.Render("-") + "\n")
	}

	stats.WriteString("\n")
	stats.WriteString(labelStyle.Render("Violation") + renderViolation(m.viols[m.k]) + "\n")
	worst := 0.0
	for _, v := range m.viols {
		if v > worst {
			worst = v
		}
	}
	stats.WriteString(labelStyle.Render("Worst") + renderViolation(worst) + "\n")
	stats.WriteString(labelStyle.Render("Cost") +
		valueStyle.Render(fmt.Sprintf("%.4g", m.cost)) + "\n")

	if len(m.viols) > 1 {
		chart := asciigraph.Plot(m.viols,
			asciigraph.Height(5), asciigraph.Width(44),
			asciigraph.Caption("violation by stage"))
		stats.WriteString(chartStyle.Render(chart) + "\n")
	}
	stats.WriteString(helpStyle.Render("SP:Pause R:Restart [ ]:Step Q:Quit"))

	statsView := panelStyle.Render(stats.String())
	if m.traj.StateDimension() < 2 {
		return statsView
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.renderPath()), statsView)
}

// renderPath draws the x0/x1 trace up to the cursor, with obstacles
// and goal markers.
func (m WatchModel) renderPath() string {
	c := NewPathCanvas(canvasCols, canvasRows, m.xmin, m.xmax, m.ymin, m.ymax)
	for _, obs := range m.obstacles {
		for i := 0; i < obs.OutputDimension(); i++ {
			x, y, r := obs.Obstacle(i)
			c.Circle(x, y, r)
		}
	}
	for _, g := range m.goals {
		if g.Target().Len() >= 2 {
			c.Marker(g.Target().AtVec(0), g.Target().AtVec(1))
		}
	}
	for k := 1; k <= m.k; k++ {
		prev := m.traj.State(k - 1)
		cur := m.traj.State(k)
		c.Line(prev.AtVec(0), prev.AtVec(1), cur.AtVec(0), cur.AtVec(1))
	}
	cur := m.traj.State(m.k)
	c.Marker(cur.AtVec(0), cur.AtVec(1))
	return c.String()
}

func renderViolation(v float64) string {
	if v > violationTol {
		return violatedStyle.Render(fmt.Sprintf("%.4g", v))
	}
	return okStyle.Render(fmt.Sprintf("%.4g", v))
}

func formatVec(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RunWatch starts the replay TUI and blocks until it exits.
func RunWatch(name string, prob *problem.Problem, traj *trajectory.Trajectory) error {
	_, err := tea.NewProgram(NewWatch(name, prob, traj)).Run()
	return err
}
