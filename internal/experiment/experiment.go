package experiment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/san-kum/boxdim/internal/analysis"
	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/config"
	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/integrators"
	"github.com/san-kum/boxdim/internal/physics"
)

// lyapunovSeparation is the initial offset between the paired trajectories.
const lyapunovSeparation = 1e-8

// Result is everything one run produces.
type Result struct {
	System     string
	Params     dynamo.Params
	InitState  dynamo.State
	Trajectory *dynamo.Trajectory
	Region     boxcount.Region
	Scales     []analysis.ScalePoint
	// Dimension is nil when fewer than two scales were occupied.
	Dimension *analysis.DimensionEstimate
	// Lyapunov is only set when requested.
	Lyapunov *float64
	Elapsed  time.Duration
}

type Experiment struct {
	cfg      *config.Config
	sys      physics.System
	params   dynamo.Params
	x0       dynamo.State
	logger   *slog.Logger
	lyapunov bool
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithLyapunov also estimates the largest Lyapunov exponent over the same
// time span and step.
func WithLyapunov() Option {
	return func(e *Experiment) { e.lyapunov = true }
}

// New validates cfg and resolves its system, parameters and initial state.
func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys, err := physics.Lookup(cfg.System)
	if err != nil {
		return nil, err
	}
	params, err := cfg.ResolveParams(sys)
	if err != nil {
		return nil, err
	}
	x0, err := cfg.InitialState(sys)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:    cfg.Clone(),
		sys:    sys,
		params: params,
		x0:     x0,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Params() dynamo.Params   { return e.params }
func (e *Experiment) InitState() dynamo.State { return e.x0 }
func (e *Experiment) System() physics.System  { return e.sys }
func (e *Experiment) Config() *config.Config  { return e.cfg.Clone() }

// Sides returns the cube sides to count at, largest first.
func (e *Experiment) Sides() ([]float64, error) {
	box := e.cfg.Box
	if box.Scales <= 1 {
		return []float64{box.Side}, nil
	}
	return analysis.Scales(box.Side, box.MinSide, box.Scales)
}

// Region returns the configured cuboid, or the trajectory's bounding box
// padded by the margin when auto_region is set.
func (e *Experiment) Region(traj *dynamo.Trajectory) (boxcount.Region, error) {
	if !e.cfg.Box.AutoRegion {
		return boxcount.Cuboid(e.cfg.Box.HalfWidth), nil
	}
	lo, hi, ok := traj.Bounds()
	if !ok {
		return boxcount.Region{}, dynamo.InvalidArgument("trajectory", traj.Len(), "no finite state to bound the region")
	}
	return boxcount.Around(lo, hi, e.cfg.Box.Margin), nil
}

// Run integrates the system and counts occupied cubes at every configured
// side. A fit is attempted when more than one side is configured.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	cfg := e.cfg

	e.logger.Debug("integrating",
		slog.String("system", e.sys.Name),
		slog.Any("params", e.params),
		slog.Any("init_state", e.x0),
		slog.Int("steps", cfg.Steps))

	traj, err := integrators.RK4(e.sys.Field, e.x0, cfg.T0, cfg.MaxTime, cfg.Steps, e.params)
	if err != nil {
		return nil, err
	}
	if last := traj.States[traj.Len()-1]; !last.IsFinite() {
		e.logger.Warn("trajectory diverged", slog.Any("final_state", last))
	}

	res := &Result{
		System:     e.sys.Name,
		Params:     e.params,
		InitState:  e.x0,
		Trajectory: traj,
	}

	if res.Region, err = e.Region(traj); err != nil {
		return nil, err
	}
	sides, err := e.Sides()
	if err != nil {
		return nil, err
	}

	var opts []boxcount.Option
	if cfg.Box.Workers > 0 {
		opts = append(opts, boxcount.WithWorkers(cfg.Box.Workers))
	}

	for _, side := range sides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pt, err := analysis.Occupancy(traj.States, res.Region, side, opts...)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("counted cubes",
			slog.Float64("side", side),
			slog.Int("occupied", pt.Count),
			slog.Int("total", pt.Total))
		res.Scales = append(res.Scales, pt)
	}

	if len(sides) > 1 {
		est, err := analysis.Fit(res.Scales)
		switch {
		case errors.Is(err, analysis.ErrInsufficientScales):
			e.logger.Warn("dimension fit skipped", slog.String("reason", err.Error()))
		case err != nil:
			return nil, err
		default:
			res.Dimension = est
		}
	}

	if e.lyapunov {
		l := analysis.LyapunovExponent(e.sys.Field, e.params, e.x0, traj.Step, cfg.Steps, lyapunovSeparation)
		res.Lyapunov = &l
	}

	res.Elapsed = time.Since(start)
	e.logger.Info("run complete",
		slog.String("system", e.sys.Name),
		slog.Int("scales", len(res.Scales)),
		slog.Duration("elapsed", res.Elapsed))
	return res, nil
}
