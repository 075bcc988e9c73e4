package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/export"
	"github.com/san-kum/trajopt/internal/numdiff"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/problems"
	"github.com/san-kum/trajopt/internal/store"
	"github.com/san-kum/trajopt/internal/trajectory"
	"github.com/san-kum/trajopt/internal/viz"
)

var (
	configFile string
	preset     string
	knot       int
	tolerance  float64
	csvPath    string
	jsonPath   string
	svgPath    string
)

// main is the entry point for the trajopt CLI; it registers commands and
// flags and executes the root command. It exits the process with status 1
// if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "trajopt",
		Short: "trajectory optimization problem workbench",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available problems",
		RunE:  listProblems,
	}

	describeCmd := &cobra.Command{
		Use:   "describe [problem]",
		Short: "show problem structure",
		Args:  cobra.MaximumNArgs(1),
		RunE:  describeProblem,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [problem]",
		Short: "check that a problem is fully defined",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateProblem,
	}

	rolloutCmd := &cobra.Command{
		Use:   "rollout [problem]",
		Short: "simulate the initial trajectory through the dynamics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  rolloutProblem,
	}
	rolloutCmd.Flags().StringVar(&csvPath, "csv", "", "write trajectory data to a CSV file")
	rolloutCmd.Flags().StringVar(&jsonPath, "json", "", "write trajectory data to a JSON file")
	rolloutCmd.Flags().StringVar(&svgPath, "svg", "", "render the trajectory path to an SVG file")

	violationsCmd := &cobra.Command{
		Use:   "violations [problem]",
		Short: "report constraint violations along the initial trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  reportViolations,
	}
	violationsCmd.Flags().IntVar(&knot, "knot", -1, "detail a specific knot point (default worst)")

	checkCmd := &cobra.Command{
		Use:   "check [problem]",
		Short: "verify analytic derivatives against finite differences",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkDerivatives,
	}
	checkCmd.Flags().Float64Var(&tolerance, "tol", 1e-5, "largest allowed deviation")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [problem]",
		Short: "roll out and print the trajectory as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [problem]",
		Short: "roll out and print the trajectory as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [problem]",
		Short: "roll out and print the trajectory path as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [problem]",
		Short: "replay the initial trajectory in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchProblem,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(listCmd, describeCmd, validateCmd, rolloutCmd, violationsCmd, checkCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, watchCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolve builds the problem and initial trajectory a command operates on.
// A config file wins over a preset, which wins over the registry defaults
// for the named problem.
func resolve(args []string) (string, *problem.Problem, *trajectory.Trajectory, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return "", nil, nil, err
		}
		prob, traj, err := cfg.Build()
		if err != nil {
			return "", nil, nil, err
		}
		name := cfg.Problem
		if cfg.Scenario != "" {
			name += "_" + cfg.Scenario
		}
		return name, prob, traj, nil
	}

	registry := problems.NewRegistry()
	if len(args) == 0 {
		return "", nil, nil, fmt.Errorf("problem name required (available: %v)", registry.List())
	}
	name := args[0]

	if preset != "" {
		cfg := config.GetPreset(name, preset)
		if cfg == nil {
			return "", nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		prob, traj, err := cfg.Build()
		return name, prob, traj, err
	}

	prob, traj, err := registry.Get(name)
	return name, prob, traj, err
}

func listProblems(cmd *cobra.Command, args []string) error {
	registry := problems.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATES\tCONTROLS\tSEGMENTS\tCONSTRAINT ROWS")

	for _, name := range registry.List() {
		prob, traj, err := registry.Get(name)
		if err != nil {
			return err
		}
		rows := 0
		for k := 0; k <= prob.NumSegments(); k++ {
			rows += prob.NumConstraints(k)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			name,
			traj.StateDimension(),
			traj.ControlDimension(),
			prob.NumSegments(),
			rows,
		)
	}

	return w.Flush()
}

func describeProblem(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}

	n := prob.NumSegments()
	fmt.Printf("problem: %s\n", name)
	fmt.Printf("segments: %d\n", n)
	fmt.Printf("state dim: %d\n", traj.StateDimension())
	fmt.Printf("control dim: %d\n", traj.ControlDimension())
	fmt.Printf("duration: %.3fs\n", traj.Duration())
	if x0 := prob.GetInitialState(); x0 != nil {
		fmt.Printf("initial state: %s\n", formatVec(x0))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KNOTS\tCONSTRAINT\tROWS\tTYPE")

	// Consecutive knots with the same constraint stack share a table row.
	start := 0
	sig := knotSignature(prob, 0)
	for k := 1; k <= n+1; k++ {
		var s string
		if k <= n {
			s = knotSignature(prob, k)
			if s == sig {
				continue
			}
		}

		span := strconv.Itoa(start)
		if k-1 > start {
			span = fmt.Sprintf("%d-%d", start, k-1)
		}
		cons := prob.Constraints(start)
		if len(cons) == 0 {
			fmt.Fprintf(w, "%s\t(none)\t0\t-\n", span)
		}
		for _, c := range cons {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", span, c.Label(), c.OutputDimension(), constraint.TypeLabel(c.Cone()))
		}
		start, sig = k, s
	}

	return w.Flush()
}

func knotSignature(prob *problem.Problem, k int) string {
	var sb strings.Builder
	for _, c := range prob.Constraints(k) {
		fmt.Fprintf(&sb, "%s/%d/%v;", c.Label(), c.OutputDimension(), c.Cone())
	}
	return sb.String()
}

func validateProblem(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}

	n := prob.NumSegments()
	costs := 0
	rows := 0
	for k := 0; k <= n; k++ {
		if prob.GetCostFunction(k) != nil {
			costs++
		}
		rows += prob.NumConstraints(k)
	}

	initial := "missing"
	if x0 := prob.GetInitialState(); x0 != nil {
		initial = fmt.Sprintf("set (dim %d)", x0.Len())
	}

	fmt.Printf("problem: %s\n", name)
	fmt.Printf("segments: %d\n", n)
	fmt.Printf("state dim: %d\n", traj.StateDimension())
	fmt.Printf("control dim: %d\n", traj.ControlDimension())
	fmt.Printf("cost functions: %d/%d\n", costs, n+1)
	fmt.Printf("initial state: %s\n", initial)
	fmt.Printf("constraint rows: %d\n", rows)
	fmt.Printf("fully defined: %v\n", prob.IsFullyDefined())

	if !prob.IsFullyDefined() {
		return fmt.Errorf("problem %s is not fully defined", name)
	}
	return nil
}

func rolloutProblem(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}

	fmt.Printf("rolling out %s...\n", name)
	start := time.Now()
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("knot points: %d\n", prob.NumSegments()+1)
	fmt.Printf("duration: %.3fs\n", traj.Duration())
	fmt.Printf("cost: %.6f\n", trajectory.TotalCost(prob, traj))
	fmt.Printf("max violation: %.6f\n", trajectory.MaxViolation(prob, traj))
	fmt.Printf("final state: %s\n", formatVec(traj.FinalState()))

	if csvPath != "" {
		if err := store.ExportCSV(csvPath, traj); err != nil {
			return err
		}
		fmt.Printf("csv written to %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := store.ExportJSON(jsonPath, store.NewExportData(name, prob, traj)); err != nil {
			return err
		}
		fmt.Printf("json written to %s\n", jsonPath)
	}
	if svgPath != "" {
		if err := export.ExportSVG(svgPath, prob, traj); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}

	return nil
}

func reportViolations(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}

	viols := trajectory.StageViolations(prob, traj)
	worst, worstVal := 0, 0.0
	for k, v := range viols {
		if v > worstVal {
			worst, worstVal = k, v
		}
	}

	fmt.Printf("problem: %s\n", name)
	fmt.Printf("cost: %.6f\n", trajectory.TotalCost(prob, traj))
	fmt.Printf("max violation: %.6f (knot %d)\n\n", worstVal, worst)

	if chart := viz.ViolationChart(viols, 80); chart != "" {
		fmt.Println(chart)
		fmt.Println()
	}

	k := knot
	if k < 0 {
		k = worst
	}
	if k > prob.NumSegments() {
		return fmt.Errorf("knot %d out of range (0-%d)", k, prob.NumSegments())
	}

	cons := prob.Constraints(k)
	if len(cons) == 0 {
		fmt.Printf("no constraints at knot %d\n", k)
		return nil
	}

	u := mat.Vector(&mat.VecDense{})
	if k < traj.NumSegments() {
		u = traj.Control(k)
	}
	fmt.Printf("constraints at knot %d:\n", k)
	for _, c := range cons {
		fmt.Printf("  %s\n", constraint.NewInfo(c, k, traj.State(k), u))
	}

	return nil
}

func checkDerivatives(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}

	fmt.Printf("checking derivatives for %s\n\n", name)

	results := numdiff.CheckProblem(prob, traj)

	type row struct {
		kind  string
		label string
		knot  int
		diff  float64
	}
	var rows []row
	index := map[string]int{}
	record := func(kind, label string, k int, diff float64) {
		key := kind + "/" + label
		i, ok := index[key]
		if !ok {
			index[key] = len(rows)
			rows = append(rows, row{kind, label, k, diff})
			return
		}
		if diff > rows[i].diff {
			rows[i].knot = k
			rows[i].diff = diff
		}
	}
	for _, r := range results {
		if !math.IsNaN(r.Dynamics) {
			record("dynamics", "discrete model", r.Stage, r.Dynamics)
		}
		for _, c := range r.Constraints {
			record("constraint", c.Label, r.Stage, c.Diff)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tLABEL\tWORST KNOT\tMAX DIFF\tSTATUS")
	for _, r := range rows {
		status := "ok"
		if r.diff > tolerance {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3e\t%s\n", r.kind, r.label, r.knot, r.diff, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if worst := numdiff.MaxDiff(results); worst > tolerance {
		return fmt.Errorf("derivative check failed: %.3e exceeds tolerance %.3e", worst, tolerance)
	}
	fmt.Printf("\nall derivatives within %.1e\n", tolerance)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}
	return store.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}
	return store.WriteJSON(os.Stdout, store.NewExportData(name, prob, traj))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}
	return export.WriteSVG(os.Stdout, prob, traj)
}

func watchProblem(cmd *cobra.Command, args []string) error {
	name, prob, traj, err := resolve(args)
	if err != nil {
		return err
	}
	if err := trajectory.Rollout(prob, traj); err != nil {
		return err
	}
	return viz.RunWatch(name, prob, traj)
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, p := range config.ListProblems() {
			fmt.Printf("%s: %v\n", p, config.ListPresets(p))
		}
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for problem: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "trajopt.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", path)
	return nil
}

func formatVec(v *mat.VecDense) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = strconv.FormatFloat(v.AtVec(i), 'g', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
