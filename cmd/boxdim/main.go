package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/boxdim/internal/config"
	"github.com/san-kum/boxdim/internal/physics"
)

var (
	dataDir string
	verbose bool
	// Run configuration
	configFile string
	preset     string
	paramFlags map[string]string
	x0Flag     []float64
	t0         float64
	maxTime    float64
	steps      int
	// Grid
	side       float64
	minSide    float64
	scales     int
	halfWidth  float64
	autoRegion bool
	margin     float64
	workers    int
	// Output
	lyapunov bool
	save     bool
	chart    bool
	width    int
)

// main registers the boxdim commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "boxdim",
		Short:         "integrate chaotic flows and count the cubes they visit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxdim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "integrate a system and count occupied cubes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExperiment,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringToStringVar(&paramFlags, "param", nil, "parameter override, e.g. --param rho=28")
	runCmd.Flags().Float64SliceVar(&x0Flag, "x0", nil, "initial state x,y,z")
	runCmd.Flags().Float64Var(&t0, "t0", config.DefaultT0, "start time")
	runCmd.Flags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "end time")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of RK4 steps")
	addGridFlags(runCmd)
	runCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run under --data")
	runCmd.Flags().BoolVar(&chart, "chart", false, "print ascii charts")
	runCmd.Flags().IntVar(&width, "width", 80, "chart width")

	countCmd := &cobra.Command{
		Use:   "count [run_id]",
		Short: "count occupied cubes for a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  countRun,
	}
	addGridFlags(countCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&chart, "chart", false, "print ascii charts")
	showCmd.Flags().IntVar(&width, "width", 80, "chart width")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			systems := physics.Names()
			if len(args) == 1 {
				systems = args
			}
			for _, sys := range systems {
				names := config.ListPresets(sys)
				if len(names) == 0 {
					fmt.Printf("no presets for system: %s\n", sys)
					continue
				}
				fmt.Printf("presets for %s:\n", sys)
				for _, p := range names {
					fmt.Printf("  %s\n", p)
				}
			}
		},
	}

	rootCmd.AddCommand(runCmd, countCmd, listCmd, showCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&side, "side", config.DefaultSide, "cube side length")
	cmd.Flags().Float64Var(&minSide, "min-side", config.DefaultMinSide, "smallest side when --scales > 1")
	cmd.Flags().IntVar(&scales, "scales", 1, "number of geometrically spaced sides")
	cmd.Flags().Float64Var(&halfWidth, "half-width", config.DefaultHalfWidth, "grid covers [-w, w)^3")
	cmd.Flags().BoolVar(&autoRegion, "auto-region", false, "fit the grid to the trajectory bounds")
	cmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "padding around the trajectory for --auto-region")
	cmd.Flags().IntVar(&workers, "workers", 0, "occupancy workers (0 = GOMAXPROCS)")
}

// buildConfig layers the config file, preset, system argument and explicit
// flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	system := cfg.System
	if len(args) == 1 {
		system = args[0]
	}

	switch {
	case preset != "":
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", system, preset)
		}
		cfg = p
	case system != cfg.System:
		cfg.System = system
		cfg.Params = nil
		cfg.InitState = nil
	}

	if len(paramFlags) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(paramFlags))
	}
	for name, raw := range paramFlags {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("--param %s: %w", name, err)
		}
		cfg.Params[name] = v
	}

	flags := cmd.Flags()
	if flags.Changed("x0") {
		cfg.InitState = x0Flag
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("time") {
		cfg.MaxTime = maxTime
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	applyGridFlags(cmd, &cfg.Box)

	return cfg, cfg.Validate()
}

func applyGridFlags(cmd *cobra.Command, box *config.BoxConfig) {
	flags := cmd.Flags()
	if flags.Changed("side") {
		box.Side = side
	}
	if flags.Changed("min-side") {
		box.MinSide = minSide
	}
	if flags.Changed("scales") {
		box.Scales = scales
	}
	if flags.Changed("half-width") {
		box.HalfWidth = halfWidth
	}
	if flags.Changed("auto-region") {
		box.AutoRegion = autoRegion
	}
	if flags.Changed("margin") {
		box.Margin = margin
	}
	if flags.Changed("workers") {
		box.Workers = workers
	}
}
