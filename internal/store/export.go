// Package store exports evaluated trajectories as CSV or JSON for
// plotting and archiving.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// ExportData is the JSON document for a trajectory evaluated against
// its problem.
type ExportData struct {
	Problem      string      `json:"problem"`
	Segments     int         `json:"segments"`
	StateDim     int         `json:"state_dim"`
	ControlDim   int         `json:"control_dim"`
	Cost         float64     `json:"cost"`
	MaxViolation float64     `json:"max_violation"`
	Times        []float64   `json:"times"`
	States       [][]float64 `json:"states"`
	Controls     [][]float64 `json:"controls"`
	Violations   []float64   `json:"violations"`
}

// NewExportData evaluates the trajectory against the problem and
// collects the result into an export document.
func NewExportData(name string, prob *problem.Problem, traj *trajectory.Trajectory) *ExportData {
	nseg := traj.NumSegments()
	viols := trajectory.StageViolations(prob, traj)
	worst := 0.0
	for _, v := range viols {
		if v > worst {
			worst = v
		}
	}

	data := &ExportData{
		Problem:      name,
		Segments:     nseg,
		StateDim:     traj.StateDimension(),
		ControlDim:   traj.ControlDimension(),
		Cost:         trajectory.TotalCost(prob, traj),
		MaxViolation: worst,
		Violations:   viols,
		Times:        make([]float64, nseg+1),
		States:       make([][]float64, nseg+1),
		Controls:     make([][]float64, nseg),
	}
	for k := 0; k <= nseg; k++ {
		data.Times[k] = traj.Time(k)
		data.States[k] = vecSlice(traj.State(k))
	}
	for k := 0; k < nseg; k++ {
		data.Controls[k] = vecSlice(traj.Control(k))
	}
	return data
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, data *ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes the document to a file.
func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	defer file.Close()
	if err := WriteJSON(file, data); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// WriteCSV writes the trajectory as one row per knot point with
// columns time, x0..x{n-1}, u0..u{m-1}. The terminal row has empty
// control cells.
func WriteCSV(w io.Writer, traj *trajectory.Trajectory) error {
	cw := csv.NewWriter(w)

	n := traj.StateDimension()
	m := traj.ControlDimension()
	header := make([]string, 0, 1+n+m)
	header = append(header, "time")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < m; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for k := 0; k <= traj.NumSegments(); k++ {
		row := make([]string, 0, 1+n+m)
		row = append(row, formatCell(traj.Time(k)))
		x := traj.State(k)
		for i := 0; i < n; i++ {
			row = append(row, formatCell(x.AtVec(i)))
		}
		if k < traj.NumSegments() {
			u := traj.Control(k)
			for i := 0; i < m; i++ {
				row = append(row, formatCell(u.AtVec(i)))
			}
		} else {
			for i := 0; i < m; i++ {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the trajectory to a file.
func ExportCSV(path string, traj *trajectory.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	defer file.Close()
	if err := WriteCSV(file, traj); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
