package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/elowan/kinetix/internal/codegen"
	"github.com/elowan/kinetix/internal/config"
	"github.com/elowan/kinetix/internal/export"
	"github.com/elowan/kinetix/internal/integrators"
	"github.com/elowan/kinetix/internal/kinetics"
	"github.com/elowan/kinetix/internal/odes"
	"github.com/elowan/kinetix/internal/storage"
	"github.com/elowan/kinetix/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	adaptive   bool
	tolerance  float64
	configFile string
	preset     string
	paramFlags []string
	initFlags  []string
	// plot/phase selection
	speciesName string
	xSpecies    string
	ySpecies    string
	// output
	outFile     string
	withJac     bool
	latexOutput bool
	frameRate   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinetix",
		Short: "symbolic reaction kinetics lab",
		Long: "kinetix builds ODE systems symbolically from reaction stoichiometry,\n" +
			"integrates them numerically, and can emit the system as C source.",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinetix", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "integrate a reaction system and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	systemCmd := &cobra.Command{
		Use:   "system [system]",
		Short: "print the symbolic ODEs of a reaction system",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showSystem,
	}
	addScenarioFlags(systemCmd)
	systemCmd.Flags().BoolVar(&withJac, "jacobian", false, "also print the Jacobian")
	systemCmd.Flags().BoolVar(&latexOutput, "latex", false, "print LaTeX instead of plain text")

	codegenCmd := &cobra.Command{
		Use:   "codegen [system]",
		Short: "emit the system as C source",
		Args:  cobra.MaximumNArgs(1),
		RunE:  emitCode,
	}
	addScenarioFlags(codegenCmd)
	codegenCmd.Flags().BoolVar(&withJac, "jacobian", false, "also emit the Jacobian")
	codegenCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&speciesName, "species", "", "plot a single species by name")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plot of two species",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xSpecies, "x", "", "species for the x axis")
	phaseCmd.Flags().StringVar(&ySpecies, "y", "", "species for the y axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored trajectory as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [system] [integrator...]",
		Short: "run the same system under several integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	compareCmd.Flags().Float64Var(&duration, "time", 0, "duration override")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, systemCmd, codegenCmd, listCmd, plotCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, rk4, rk45)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step-size control")
	cmd.Flags().Float64Var(&tolerance, "tol", 0, "adaptive tolerance")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringSliceVar(&paramFlags, "param", nil, "rate constant override, name=value")
	cmd.Flags().StringSliceVar(&initFlags, "init", nil, "initial concentration override, name=value")
}

// resolveConfig applies the override precedence: preset, then config file,
// then explicit flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	system := ""
	if len(args) > 0 {
		system = args[0]
	}

	if preset != "" {
		if system == "" {
			return nil, fmt.Errorf("--preset requires a system argument")
		}
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if system != "" {
		cfg.System = system
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}

	overrides, err := parsePairs(paramFlags)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	inits, err := parsePairs(initFlags)
	if err != nil {
		return nil, err
	}
	if len(inits) > 0 && cfg.Init == nil {
		cfg.Init = map[string]float64{}
	}
	for k, v := range inits {
		cfg.Init[k] = v
	}
	return cfg, nil
}

func parsePairs(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value in %q: %w", pair, err)
		}
		out[name] = f
	}
	return out, nil
}

type preparedRun struct {
	cfg      *config.Config
	scenario *config.Scenario
	sys      *kinetics.System
	compiled *kinetics.CompiledSystem
	integ    odes.Integrator
	odeCfg   odes.Config
}

func prepare(cmd *cobra.Command, args []string) (*preparedRun, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	scenario, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	sys, err := kinetics.Build(scenario.Reactions, scenario.Species)
	if err != nil {
		return nil, err
	}
	compiled, err := sys.Compile(scenario.Params)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	odeCfg := odes.DefaultConfig()
	odeCfg.Dt = cfg.Dt
	odeCfg.Duration = cfg.Duration
	odeCfg.Adaptive = cfg.Adaptive
	if cfg.Tolerance > 0 {
		odeCfg.Tolerance = cfg.Tolerance
	}
	return &preparedRun{
		cfg:      cfg,
		scenario: scenario,
		sys:      sys,
		compiled: compiled,
		integ:    integ,
		odeCfg:   odeCfg,
	}, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s (%d species, %d reactions)...\n",
		p.scenario.Name, len(p.scenario.Species), len(p.scenario.Reactions))
	start := time.Now()

	sim := odes.New(p.compiled.ODESystem(), p.integ)
	result, err := sim.Run(context.Background(), p.scenario.InitState(), p.odeCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		System:     p.scenario.Name,
		Species:    p.scenario.Species,
		Seed:       p.cfg.Seed,
		Dt:         p.cfg.Dt,
		Duration:   p.cfg.Duration,
		Integrator: p.cfg.Integrator,
		Params:     p.scenario.Params,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, runErr := range result.Errors {
		fmt.Printf("warning: %v\n", runErr)
	}
	if p.sys.Closed() {
		fmt.Printf("total drift: %.3g\n", result.TotalDrift)
	}
	final := result.States[len(result.States)-1]
	fmt.Println("\nfinal concentrations:")
	for i, name := range p.scenario.Species {
		fmt.Printf("  [%s] = %.6g\n", name, final[i])
	}
	return nil
}

func showSystem(cmd *cobra.Command, args []string) error {
	p, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	for i, name := range p.sys.Species {
		if latexOutput {
			fmt.Printf("\\frac{d[%s]}{dt} = %s\n", name, p.sys.Derivs[i].LaTeX())
		} else {
			fmt.Printf("d[%s]/dt = %s\n", name, p.sys.Derivs[i])
		}
	}
	fmt.Printf("\nrate constants: %s\n", strings.Join(p.sys.RateNames(), ", "))

	if withJac {
		fmt.Println("\njacobian:")
		for i, row := range p.sys.Jacobian() {
			for j, e := range row {
				if latexOutput {
					fmt.Printf("J_{%d%d} = %s\n", i, j, e.LaTeX())
				} else {
					fmt.Printf("J[%d][%d] = %s\n", i, j, e)
				}
			}
		}
	}
	return nil
}

func emitCode(cmd *cobra.Command, args []string) error {
	p, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	src, err := codegen.EmitC(p.scenario.Name, p.sys, withJac)
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Print(src)
		return nil
	}
	return os.WriteFile(outFile, []byte(src), 0644)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tDT\tINTEG\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.2gs\t%s\t%.3g\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.TotalDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s (%s, %s)\n\n", meta.ID, meta.System, meta.Integrator)

	for si, name := range meta.Species {
		if speciesName != "" && speciesName != name {
			continue
		}
		series := make([]float64, len(states))
		for i, s := range states {
			series[i] = s[si]
		}
		graph := asciigraph.Plot(downsample(series, 400),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("[%s] over %.2fs", name, meta.Duration)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	xi, yi := 0, 1
	if len(meta.Species) < 2 {
		return fmt.Errorf("phase plot needs at least two species")
	}
	if xSpecies != "" {
		if xi = speciesIndex(meta.Species, xSpecies); xi < 0 {
			return fmt.Errorf("unknown species %q", xSpecies)
		}
	}
	if ySpecies != "" {
		if yi = speciesIndex(meta.Species, ySpecies); yi < 0 {
			return fmt.Errorf("unknown species %q", ySpecies)
		}
	}

	const gw, gh = 70, 24
	grid := make([][]rune, gh)
	for r := range grid {
		grid[r] = make([]rune, gw)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	minX, maxX := states[0][xi], states[0][xi]
	minY, maxY := states[0][yi], states[0][yi]
	for _, s := range states {
		minX, maxX = minMax(minX, maxX, s[xi])
		minY, maxY = minMax(minY, maxY, s[yi])
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	for _, s := range states {
		c := int((s[xi] - minX) / (maxX - minX) * float64(gw-1))
		r := gh - 1 - int((s[yi]-minY)/(maxY-minY)*float64(gh-1))
		grid[r][c] = '·'
	}

	fmt.Printf("phase: [%s] vs [%s]\n", meta.Species[xi], meta.Species[yi])
	for _, row := range grid {
		fmt.Println(string(row))
	}
	fmt.Printf("x: [%s] in [%.3g, %.3g]   y: [%s] in [%.3g, %.3g]\n",
		meta.Species[xi], minX, maxX, meta.Species[yi], minY, maxY)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write(append([]string{"time"}, meta.Species...)); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, v := range states[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	result := &odes.Result{Times: times, Metrics: meta.Metrics, TotalDrift: meta.TotalDrift}
	for _, s := range states {
		result.States = append(result.States, s)
	}
	doc := export.NewDocument(meta.System, meta.Species, meta.Integrator, meta.Dt, meta.Duration, result)

	if outFile == "" {
		return export.WriteJSON(os.Stdout, doc)
	}
	return export.ExportJSON(outFile, doc)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(times, states, meta.Species, 800, 400)
	if svg == "" {
		return fmt.Errorf("not enough data to render")
	}
	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range kinetics.CatalogNames() {
			entry, _ := kinetics.Lookup(name)
			fmt.Printf("%s: %s\n", name, entry.Description)
			for _, p := range config.ListPresets(name) {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	}
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for system: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	entry, err := kinetics.Lookup(args[0])
	if err != nil {
		return err
	}
	sys, err := entry.Build()
	if err != nil {
		return err
	}
	compiled, err := sys.Compile(entry.Params)
	if err != nil {
		return err
	}

	cfg := odes.DefaultConfig()
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}

	x0 := make(odes.State, len(entry.Species))
	for i, name := range entry.Species {
		x0[i] = entry.Init[name]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tELAPSED\tDRIFT\tFINAL")
	for _, name := range args[1:] {
		integ, err := integrators.ByName(name)
		if err != nil {
			return err
		}
		sim := odes.New(compiled.ODESystem(), integ)
		start := time.Now()
		result, err := sim.Run(context.Background(), x0, cfg)
		if err != nil {
			return err
		}
		final := result.States[len(result.States)-1]
		parts := make([]string, len(final))
		for i, v := range final {
			parts[i] = fmt.Sprintf("%.4g", v)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.3g\t[%s]\n",
			name, result.StepsTaken, time.Since(start), result.TotalDrift, strings.Join(parts, " "))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	p, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	return tui.Run(p.scenario.Name, p.scenario.Species, p.compiled.ODESystem(),
		p.integ, p.scenario.InitState(), p.odeCfg, frameRate)
}

func speciesIndex(species []string, name string) int {
	for i, s := range species {
		if s == name {
			return i
		}
	}
	return -1
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

func downsample(series []float64, max int) []float64 {
	if len(series) <= max {
		return series
	}
	step := len(series) / max
	out := make([]float64, 0, max)
	for i := 0; i < len(series); i += step {
		out = append(out, series[i])
	}
	return out
}
