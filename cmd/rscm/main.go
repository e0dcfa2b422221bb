package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/components"
	"github.com/lewisjared/two-layer-model/internal/config"
	"github.com/lewisjared/two-layer-model/internal/model"
	"github.com/lewisjared/two-layer-model/internal/storage"
	"github.com/lewisjared/two-layer-model/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	live       bool
	save       bool
	plotVar    string
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rscm",
		Short: "composable reduced-complexity climate model runner",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rscm", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario to completion",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	runCmd.Flags().BoolVar(&live, "live", false, "step the run in a terminal UI")
	runCmd.Flags().BoolVar(&save, "save", false, "persist the finished run")
	runCmd.Flags().StringVar(&plotVar, "plot", "", "variable to plot after the run")

	resumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "resume a saved run from its checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeRun,
	}
	resumeCmd.Flags().BoolVar(&live, "live", false, "step the run in a terminal UI")
	resumeCmd.Flags().BoolVar(&save, "save", false, "persist the finished run")

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "print the resolved dependency graph as DOT",
		RunE:  printGraph,
	}
	graphCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	graphCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "list registered component kinds",
		RunE:  listComponents,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [variable]",
		Short: "plot a variable from a saved run",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "graph height in rows")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's collection to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a starter scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, resumeCmd, graphCmd, componentsCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from --preset or --config, falling
// back to the default when neither is given.
func loadScenario() (*config.Config, string, error) {
	if preset != "" && configFile != "" {
		return nil, "", fmt.Errorf("--preset and --config are mutually exclusive")
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, preset, nil
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, "custom", nil
	}
	return config.DefaultConfig(), "default", nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadScenario()
	if err != nil {
		return err
	}

	m, err := cfg.BuildModel(components.DefaultRegistry())
	if err != nil {
		return err
	}

	if plotVar == "" {
		plotVar = cfg.Output.Plot
	}

	return execute(m, scenario)
}

func resumeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, err := st.LoadCheckpoint(args[0], components.DefaultRegistry())
	if err != nil {
		return err
	}
	return execute(m, args[0]+"_resumed")
}

// execute drives the model to completion, then reports, plots and
// optionally saves.
func execute(m *model.Model, scenario string) error {
	if live {
		if err := viz.RunLive(m, plotVar); err != nil {
			return err
		}
	} else {
		start := time.Now()
		if err := m.Run(); err != nil {
			return err
		}
		fmt.Printf("completed %d steps in %v\n", m.TimeIndex(), time.Since(start))
	}

	fmt.Println(viz.Summary(m))

	if plotVar != "" {
		graph, err := viz.Plot(m, plotVar, 12)
		if err != nil {
			return err
		}
		fmt.Println(graph)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(scenario, m)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func printGraph(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScenario()
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel(components.DefaultRegistry())
	if err != nil {
		return err
	}
	fmt.Println(m.AsDot())
	return nil
}

func listComponents(cmd *cobra.Command, args []string) error {
	native := []component.Component{
		&components.TwoLayerComponent{},
		&components.CarbonCycleComponent{},
		&components.CO2ERFComponent{},
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tINPUTS\tOUTPUTS")
	for _, comp := range native {
		kind := comp.(component.Checkpointer).Kind()
		fmt.Fprintf(w, "%s\t%v\t%v\n", kind,
			component.InputNames(comp), component.OutputNames(comp))
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEP\tVARIABLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TimeIndex,
			run.Steps-1,
			len(run.Variables),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, err := st.LoadCheckpoint(args[0], components.DefaultRegistry())
	if err != nil {
		return err
	}
	graph, err := viz.Plot(m, args[1], plotHeight)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, err := st.LoadCheckpoint(args[0], components.DefaultRegistry())
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, m)
}
