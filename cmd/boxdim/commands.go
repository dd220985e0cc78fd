package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/boxdim/internal/analysis"
	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/config"
	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/experiment"
	"github.com/san-kum/boxdim/internal/physics"
	"github.com/san-kum/boxdim/internal/report"
	"github.com/san-kum/boxdim/internal/storage"
)

const chartHeight = 10

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	opts := []experiment.Option{experiment.WithLogger(slog.Default())}
	if lyapunov {
		opts = append(opts, experiment.WithLyapunov())
	}
	exp, err := experiment.New(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	summary := report.Summary{
		System:     res.System,
		ParamNames: exp.System().ParamNames,
		Params:     res.Params,
		InitState:  res.InitState,
		Steps:      res.Trajectory.Len(),
		StepSize:   res.Trajectory.Step,
		Region:     res.Region,
		Lyapunov:   res.Lyapunov,
		Elapsed:    res.Elapsed,
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			System:    res.System,
			Params:    res.Params,
			InitState: res.InitState,
			MaxTime:   cfg.MaxTime,
			Region:    res.Region,
			Scales:    res.Scales,
			Dimension: res.Dimension,
		}, res.Trajectory)
		if err != nil {
			return err
		}
		summary.ID = runID
		slog.Info("saved run", slog.String("id", runID), slog.String("dir", dataDir))
	}

	fmt.Println(summary.Render())
	fmt.Println(report.ScaleTable(res.Scales, res.Dimension))
	if chart {
		printCharts(res.Trajectory, res.Region, res.Scales)
	}
	return nil
}

func printCharts(traj *dynamo.Trajectory, region boxcount.Region, points []analysis.ScalePoint) {
	if p := report.Projection(traj.States, region, 0, 2, width/2, width/4); p != "" {
		fmt.Println(report.Subtle.Render("x-z projection"))
		fmt.Println(p)
	}
	for axis, name := range []string{"x", "y", "z"} {
		if g := report.Chart(ordinates(analysis.TimeSeries(traj, axis)), name+"(t)", width, chartHeight); g != "" {
			fmt.Println(g)
			fmt.Println()
		}
	}
	if g := report.Chart(ordinates(analysis.PhasePortrait(traj, 0)), "dx/dt along the trajectory", width, chartHeight); g != "" {
		fmt.Println(g)
		fmt.Println()
	}
	if g := report.LogLogChart(points, width, chartHeight); g != "" {
		fmt.Println(g)
	}
}

func ordinates(points []analysis.Point) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return ys
}

func countRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	// Only the region comes from the saved run. Side, scales and workers
	// start from the package defaults and flags override them.
	box := config.BoxConfig{
		HalfWidth: config.DefaultHalfWidth,
		Margin:    config.DefaultMargin,
		Side:      config.DefaultSide,
		MinSide:   config.DefaultMinSide,
		Scales:    1,
	}
	applyGridFlags(cmd, &box)

	region := meta.Region
	switch {
	case box.AutoRegion:
		lo, hi, ok := traj.Bounds()
		if !ok {
			return dynamo.InvalidArgument("trajectory", runID, "no finite state to bound the region")
		}
		region = boxcount.Around(lo, hi, box.Margin)
	case cmd.Flags().Changed("half-width") || region.Validate() != nil:
		region = boxcount.Cuboid(box.HalfWidth)
	}

	sides := []float64{box.Side}
	if box.Scales > 1 {
		if sides, err = analysis.Scales(box.Side, box.MinSide, box.Scales); err != nil {
			return err
		}
	}

	var opts []boxcount.Option
	if box.Workers > 0 {
		opts = append(opts, boxcount.WithWorkers(box.Workers))
	}

	points, est, err := countScales(traj.States, region, sides, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d states over %v .. %v\n", runID, traj.Len(), region.Lo, region.Hi)
	fmt.Println(report.ScaleTable(points, est))
	return nil
}

// countScales counts occupied cubes at every side and fits the dimension
// when more than one side is given. A fit without two occupied scales is
// skipped with a warning and est is nil.
func countScales(states []dynamo.State, region boxcount.Region, sides []float64, opts ...boxcount.Option) ([]analysis.ScalePoint, *analysis.DimensionEstimate, error) {
	points := make([]analysis.ScalePoint, 0, len(sides))
	for _, s := range sides {
		pt, err := analysis.Occupancy(states, region, s, opts...)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("counted cubes", slog.Float64("side", s), slog.Int("occupied", pt.Count))
		points = append(points, pt)
	}
	if len(points) < 2 {
		return points, nil, nil
	}

	est, err := analysis.Fit(points)
	switch {
	case errors.Is(err, analysis.ErrInsufficientScales):
		slog.Warn("dimension fit skipped", slog.String("reason", err.Error()))
		return points, nil, nil
	case err != nil:
		return nil, nil, err
	}
	return points, est, nil
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tSTEPS\tH\tSCALES\tDIM")

	for _, run := range runs {
		dim := "-"
		if run.Dimension != nil {
			dim = fmt.Sprintf("%.3f", run.Dimension.Dimension)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\t%s\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.StepSize,
			len(run.Scales),
			dim,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	summary := report.Summary{
		ID:        meta.ID,
		System:    meta.System,
		Params:    meta.Params,
		InitState: meta.InitState,
		Steps:     meta.Steps,
		StepSize:  meta.StepSize,
		Region:    meta.Region,
	}
	if sys, err := physics.Lookup(meta.System); err == nil {
		summary.ParamNames = sys.ParamNames
	}

	fmt.Println(summary.Render())
	fmt.Println(report.ScaleTable(meta.Scales, meta.Dimension))

	if chart {
		traj, err := st.LoadTrajectory(runID)
		if err != nil {
			return err
		}
		printCharts(traj, meta.Region, meta.Scales)
	}
	return nil
}
