package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/neurodyn/internal/config"
	"github.com/san-kum/neurodyn/internal/experiment"
	"github.com/san-kum/neurodyn/internal/monitor"
	"github.com/san-kum/neurodyn/internal/store"
	"github.com/san-kum/neurodyn/internal/tui"
	"github.com/san-kum/neurodyn/internal/viz"
)

var (
	dataDir  string
	dt       float64
	duration float64
	neurons  int
	seed     int64
	synapse  string
	gmax     float64
	delay    float64
	weight   float64
	drive    float64
	pattern  string
	prob     float64

	configFile string
	preset     string

	plotField  string
	plotNeuron int
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neurodyn",
		Short: "spiking neural network simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".neurodyn", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "V", "recorded field to plot")
	plotCmd.Flags().IntVar(&plotNeuron, "neuron", 0, "neuron index")

	rasterCmd := &cobra.Command{
		Use:   "raster [run_id]",
		Short: "spike raster of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  rasterRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a recorded field to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&plotField, "field", "V", "recorded field to export")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list neuron and synapse models",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			printSorted := func(label string, names []string) {
				sort.Strings(names)
				fmt.Printf("%s:\n", label)
				for _, n := range names {
					fmt.Printf("  %s\n", n)
				}
			}
			printSorted("neurons", reg.ListNeurons())
			printSorted("synapses", reg.ListSynapses())
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run with a full-screen live view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	watchCmd := &cobra.Command{
		Use:   "watch [model]",
		Short: "run with a minimal ansi view",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	addModelFlags(watchCmd)
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, rasterCmd, exportCmd, exportCSVCmd, modelsCmd, presetsCmd, liveCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&neurons, "neurons", config.DefaultNeurons, "group size")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&synapse, "synapse", "none", "recurrent synapse model")
	cmd.Flags().Float64Var(&gmax, "gmax", 0, "maximum synaptic conductance (0 = model default)")
	cmd.Flags().Float64Var(&delay, "delay", config.DefaultDelay, "synaptic delay")
	cmd.Flags().Float64Var(&weight, "weight", config.DefaultWeight, "synaptic weight")
	cmd.Flags().Float64Var(&drive, "drive", config.DefaultDrive, "constant external input")
	cmd.Flags().StringVar(&pattern, "pattern", "all_to_all", "connectivity pattern")
	cmd.Flags().Float64Var(&prob, "prob", 0.1, "connection probability (fixed_prob)")
}

// buildConfig merges preset, config file, and flags; flags that the user
// set explicitly win over both.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		clone := *p
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Model = model
	}

	override := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	override("dt", func() { cfg.Dt = dt })
	override("time", func() { cfg.Duration = duration })
	override("neurons", func() { cfg.Neurons = neurons })
	override("synapse", func() { cfg.Synapse = synapse })
	override("gmax", func() { cfg.Params.GMax = gmax })
	override("delay", func() { cfg.Params.Delay = delay })
	override("weight", func() { cfg.Params.Weight = weight })
	override("drive", func() { cfg.Input.Value = drive })
	override("pattern", func() { cfg.Connect.Pattern = pattern })
	override("prob", func() { cfg.Connect.Prob = prob })
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func setup(cmd *cobra.Command, model string) (*config.Config, *experiment.Experiment, error) {
	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runMetrics := exp.Metrics()
	runID, err := st.Save(store.RunMetadata{
		Model:    cfg.Model,
		Synapse:  cfg.Synapse,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Neurons:  cfg.Neurons,
		Metrics:  runMetrics,
	}, exp.Monitor())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsCompleted)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(runMetrics))
	for name := range runMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, runMetrics[name])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSYNAPSE\tTIME\tDURATION\tDT\tNEURONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%.4f\t%d\n",
			run.ID,
			run.Model,
			run.Synapse,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Neurons,
		)
	}

	return w.Flush()
}

// fieldKey resolves a bare field name against the run's recorded keys.
func fieldKey(meta *store.RunMetadata, field string) (string, error) {
	for _, key := range meta.Fields {
		if key == field || key == meta.Model+"."+field {
			return key, nil
		}
	}
	return "", fmt.Errorf("field %q not recorded (have: %v)", field, meta.Fields)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	key, err := fieldKey(meta, plotField)
	if err != nil {
		return err
	}

	values, _, err := st.LoadSeries(meta.ID, key)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if plotNeuron < 0 || plotNeuron >= len(values[0]) {
		return fmt.Errorf("neuron index %d out of range (group size %d)", plotNeuron, len(values[0]))
	}

	data := make([]float64, len(values))
	for i := range values {
		data[i] = values[i][plotNeuron]
	}

	fmt.Printf("run: %s\nmodel: %s\nsamples: %d\n\n", meta.ID, meta.Model, len(data))
	caption := fmt.Sprintf("%s neuron %d", key, plotNeuron)
	fmt.Println(viz.SeriesPlot(data, caption))
	return nil
}

func rasterRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	key, err := fieldKey(meta, "sp")
	if err != nil {
		return err
	}

	values, times, err := st.LoadSeries(meta.ID, key)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no spike data")
	}

	samples := make([]monitor.Sample, len(values))
	for i := range values {
		samples[i] = monitor.Sample{Step: i, Time: times[i], Values: values[i]}
	}

	fmt.Printf("run: %s\nmodel: %s\n\n", meta.ID, meta.Model)
	fmt.Println(viz.Raster(samples, 40))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	key, err := fieldKey(meta, plotField)
	if err != nil {
		return err
	}

	values, times, err := st.LoadSeries(meta.ID, key)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range values[0] {
		header = append(header, fmt.Sprintf("n%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range values {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range values[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args[0])
	if err != nil {
		return err
	}

	runner, err := exp.StartRunner()
	if err != nil {
		return err
	}

	// Real time roughly tracks simulated milliseconds at 30 fps.
	stepsPerFrame := int(1.0/cfg.Dt/30.0) + 1
	m := viz.NewModel(runner, exp.Group(), cfg.Model, stepsPerFrame)

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args[0])
	if err != nil {
		return err
	}

	runner, err := exp.StartRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	r := tui.NewLiveRenderer(cfg.Model, frameRate)
	r.Start()
	defer r.Stop()

	nSteps := int(cfg.Duration / cfg.Dt)
	for step := 0; step < nSteps; step++ {
		if err := runner.Step(); err != nil {
			return err
		}
		v, _ := exp.Group().ST().Get("V")
		sp, _ := exp.Group().ST().Get("sp")
		r.OnStep(v, sp, runner.Time())
	}
	return nil
}
